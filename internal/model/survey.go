package model

import (
	"strings"
	"time"

	"github.com/ryoshumei/intelliquest/internal/apperr"
	"gorm.io/gorm"
)

const (
	// MaxStaticQuestions caps the authored question list.
	MaxStaticQuestions = 50
	// MinQuestionLimit and MaxQuestionLimit bound the configurable
	// static+dynamic ceiling.
	MinQuestionLimit = 5
	MaxQuestionLimit = 50

	DefaultQuestionLimit = 10
)

type Survey struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         *uint          `json:"user_id,omitempty" gorm:"index"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description,omitempty"`
	Goal           string         `json:"goal,omitempty"`
	MaxQuestions   int            `json:"max_questions" gorm:"not null;default:10"`
	TargetLanguage string         `json:"target_language,omitempty"`
	AutoTranslate  bool           `json:"auto_translate"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	Version        int            `json:"version" gorm:"not null;default:1"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:SurveyID"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	events []DomainEvent `gorm:"-" json:"-"`
}

// NewSurvey builds a survey and queues the created event.
func NewSurvey(title, description string) (*Survey, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("survey title cannot be empty")
	}
	s := &Survey{
		Title:        strings.TrimSpace(title),
		Description:  description,
		MaxQuestions: DefaultQuestionLimit,
		IsActive:     true,
		Version:      1,
	}
	s.recordEvent(EventSurveyCreated, map[string]any{"title": s.Title})
	return s, nil
}

// StaticQuestions returns the authored base set, in order.
func (s *Survey) StaticQuestions() []Question {
	out := make([]Question, 0, len(s.Questions))
	for _, q := range s.Questions {
		if !q.IsDynamic {
			out = append(out, q)
		}
	}
	return out
}

// DynamicQuestions returns questions generated during response sessions, in order.
func (s *Survey) DynamicQuestions() []Question {
	out := make([]Question, 0)
	for _, q := range s.Questions {
		if q.IsDynamic {
			out = append(out, q)
		}
	}
	return out
}

func (s *Survey) StaticCount() int {
	n := 0
	for _, q := range s.Questions {
		if !q.IsDynamic {
			n++
		}
	}
	return n
}

func (s *Survey) DynamicCount() int {
	return len(s.Questions) - s.StaticCount()
}

func (s *Survey) TotalQuestions() int { return len(s.Questions) }

// FindQuestion looks up a question across the combined static+dynamic list.
func (s *Survey) FindQuestion(questionID uint) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

func (s *Survey) AddQuestion(q *Question) error {
	if s.StaticCount() >= MaxStaticQuestions {
		return apperr.BusinessRule("survey cannot have more than %d questions", MaxStaticQuestions)
	}
	q.IsDynamic = false
	if q.Order == 0 {
		q.Order = s.StaticCount()
	}
	s.Questions = append(s.Questions, *q)
	s.touch()
	return nil
}

func (s *Survey) RemoveQuestion(questionID uint) error {
	for i := range s.Questions {
		if s.Questions[i].ID == questionID {
			s.Questions = append(s.Questions[:i], s.Questions[i+1:]...)
			s.touch()
			return nil
		}
	}
	return apperr.NotFound("question %d not found in survey", questionID)
}

// AddDynamicQuestion appends without enforcing the MaxQuestions ceiling;
// callers must check CanGenerateDynamicQuestions first.
func (s *Survey) AddDynamicQuestion(q *Question) {
	q.IsDynamic = true
	q.IsAIGenerated = true
	q.Order = s.TotalQuestions()
	s.Questions = append(s.Questions, *q)
	s.recordEvent(EventDynamicQuestionAdded, map[string]any{
		"text": q.Text,
		"type": string(q.Type),
	})
	s.touch()
}

// ClearDynamicQuestions drops the dynamic list and returns how many were removed.
func (s *Survey) ClearDynamicQuestions() int {
	kept := make([]Question, 0, len(s.Questions))
	removed := 0
	for _, q := range s.Questions {
		if q.IsDynamic {
			removed++
			continue
		}
		kept = append(kept, q)
	}
	s.Questions = kept
	if removed > 0 {
		s.touch()
	}
	return removed
}

func (s *Survey) SetGoal(goal string) {
	s.Goal = strings.TrimSpace(goal)
	s.touch()
}

func (s *Survey) SetMaxQuestions(n int) error {
	if n < MinQuestionLimit || n > MaxQuestionLimit {
		return apperr.Validation("max questions must be between %d and %d", MinQuestionLimit, MaxQuestionLimit)
	}
	s.MaxQuestions = n
	s.touch()
	return nil
}

func (s *Survey) SetTargetLanguage(lang string) {
	s.TargetLanguage = strings.TrimSpace(lang)
	s.touch()
}

func (s *Survey) SetAutoTranslate(enabled bool) {
	s.AutoTranslate = enabled
	s.touch()
}

func (s *Survey) SetActive(active bool) {
	s.IsActive = active
	s.touch()
}

// CanGenerateDynamicQuestions gates the adaptive extension: a non-empty goal
// and remaining capacity under MaxQuestions.
func (s *Survey) CanGenerateDynamicQuestions() bool {
	if strings.TrimSpace(s.Goal) == "" {
		return false
	}
	return s.TotalQuestions() < s.MaxQuestions
}

// AvailableSlots is the remaining dynamic-question capacity.
func (s *Survey) AvailableSlots() int {
	slots := s.MaxQuestions - s.TotalQuestions()
	if slots < 0 {
		return 0
	}
	return slots
}

func (s *Survey) CanBePublished() bool {
	return s.TotalQuestions() > 0 && s.IsActive
}

func (s *Survey) recordEvent(name string, payload map[string]any) {
	s.events = append(s.events, DomainEvent{
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now(),
	})
}

// PullEvents drains the pending event queue, stamping the survey id which is
// only known after the first save.
func (s *Survey) PullEvents() []DomainEvent {
	events := s.events
	s.events = nil
	for i := range events {
		events[i].SurveyID = s.ID
	}
	return events
}

func (s *Survey) touch() {
	s.UpdatedAt = time.Now()
}
