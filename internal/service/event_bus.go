package service

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/internal/model"
)

type EventHandler func(event model.DomainEvent)

// EventBus delivers drained aggregate events to subscribers, fire-and-forget.
// Handler failures are logged, never propagated to the triggering use case.
type EventBus interface {
	Subscribe(eventName string, handler EventHandler)
	Publish(event model.DomainEvent)
}

type eventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() EventBus {
	return &eventBus{handlers: make(map[string][]EventHandler)}
}

func (b *eventBus) Subscribe(eventName string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *eventBus) Publish(event model.DomainEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.Name]
	b.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("event", event.Name).Uint("surveyID", event.SurveyID).Msg("Event handler panicked")
				}
			}()
			h(event)
		}()
	}
}
