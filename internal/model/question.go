package model

import (
	"strings"
	"time"

	"github.com/ryoshumei/intelliquest/internal/apperr"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeTextarea       QuestionType = "textarea"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeScale          QuestionType = "scale"
	QuestionTypeYesNo          QuestionType = "yes_no"
	QuestionTypeEmail          QuestionType = "email"
	QuestionTypeNumber         QuestionType = "number"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeRanking        QuestionType = "ranking"
)

var questionTypes = map[QuestionType]bool{
	QuestionTypeText: true, QuestionTypeTextarea: true,
	QuestionTypeSingleChoice: true, QuestionTypeMultipleChoice: true,
	QuestionTypeScale: true, QuestionTypeYesNo: true,
	QuestionTypeEmail: true, QuestionTypeNumber: true,
	QuestionTypeDate: true, QuestionTypeRanking: true,
}

func (t QuestionType) Valid() bool { return questionTypes[t] }

// HasEditableOptions reports whether option mutators apply to this type.
// Scale options (min/max labels) are fixed at creation.
func (t QuestionType) HasEditableOptions() bool {
	return t == QuestionTypeSingleChoice || t == QuestionTypeMultipleChoice || t == QuestionTypeRanking
}

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SurveyID      uint           `json:"survey_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Type          QuestionType   `json:"type" gorm:"not null"`
	Options       []string       `json:"options" gorm:"serializer:json"`
	IsRequired    bool           `json:"is_required"`
	IsAIGenerated bool           `json:"is_ai_generated"`
	IsDynamic     bool           `json:"is_dynamic" gorm:"index"`
	Order         int            `json:"order" gorm:"column:question_order;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// NewQuestion validates and builds an author-created question.
func NewQuestion(text string, qType QuestionType, options []string, isRequired bool) (*Question, error) {
	if err := validateQuestion(text, qType, options); err != nil {
		return nil, err
	}
	return &Question{
		Text:       strings.TrimSpace(text),
		Type:       qType,
		Options:    options,
		IsRequired: isRequired,
	}, nil
}

// NewAIQuestion builds a question authored by the external generator.
func NewAIQuestion(text string, qType QuestionType, options []string, isRequired bool) (*Question, error) {
	q, err := NewQuestion(text, qType, options, isRequired)
	if err != nil {
		return nil, err
	}
	q.IsAIGenerated = true
	return q, nil
}

func validateQuestion(text string, qType QuestionType, options []string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("question text cannot be empty")
	}
	if !qType.Valid() {
		return apperr.Validation("unknown question type %q", qType)
	}
	switch qType {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice, QuestionTypeRanking:
		if len(options) < 2 {
			return apperr.Validation("%s questions require at least 2 options", qType)
		}
	case QuestionTypeScale:
		if len(options) != 2 {
			return apperr.Validation("scale questions require exactly 2 options (min and max labels)")
		}
	}
	return nil
}

func (q *Question) UpdateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperr.Validation("question text cannot be empty")
	}
	q.Text = strings.TrimSpace(text)
	q.UpdatedAt = time.Now()
	return nil
}

func (q *Question) AddOption(option string) error {
	if !q.Type.HasEditableOptions() {
		return apperr.Validation("question type %q does not support options", q.Type)
	}
	if strings.TrimSpace(option) == "" {
		return apperr.Validation("option text cannot be empty")
	}
	q.Options = append(q.Options, option)
	q.UpdatedAt = time.Now()
	return nil
}

func (q *Question) UpdateOption(index int, option string) error {
	if !q.Type.HasEditableOptions() {
		return apperr.Validation("question type %q does not support options", q.Type)
	}
	if index < 0 || index >= len(q.Options) {
		return apperr.Validation("option index %d out of range", index)
	}
	if strings.TrimSpace(option) == "" {
		return apperr.Validation("option text cannot be empty")
	}
	q.Options[index] = option
	q.UpdatedAt = time.Now()
	return nil
}

func (q *Question) RemoveOption(index int) error {
	if !q.Type.HasEditableOptions() {
		return apperr.Validation("question type %q does not support options", q.Type)
	}
	if index < 0 || index >= len(q.Options) {
		return apperr.Validation("option index %d out of range", index)
	}
	if len(q.Options)-1 < 2 {
		return apperr.Validation("%s questions require at least 2 options", q.Type)
	}
	q.Options = append(q.Options[:index], q.Options[index+1:]...)
	q.UpdatedAt = time.Now()
	return nil
}

func (q *Question) SetOrder(order int) error {
	if order < 0 {
		return apperr.Validation("question order cannot be negative")
	}
	q.Order = order
	q.UpdatedAt = time.Now()
	return nil
}

func (q *Question) SetRequired(required bool) {
	q.IsRequired = required
	q.UpdatedAt = time.Now()
}
