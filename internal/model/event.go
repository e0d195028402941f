package model

import "time"

// Event names queued by the Survey aggregate.
const (
	EventSurveyCreated        = "survey.created"
	EventDynamicQuestionAdded = "survey.dynamic_question_added"
	EventResponseSubmitted    = "survey.response_submitted"
)

// DomainEvent is queued on an aggregate and drained by the use case after the
// write commits, then handed to the event bus.
type DomainEvent struct {
	Name       string
	SurveyID   uint
	Payload    map[string]any
	OccurredAt time.Time
}
