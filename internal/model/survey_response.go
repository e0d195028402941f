package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"gorm.io/gorm"
)

type SurveyResponse struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	ResponseUID     string            `json:"response_uid" gorm:"uniqueIndex;not null"`
	SurveyID        uint              `json:"survey_id" gorm:"not null;index"`
	RespondentID    *string           `json:"respondent_id,omitempty" gorm:"index"`
	RespondentEmail *string           `json:"respondent_email,omitempty"`
	Answers         []Answer          `json:"answers,omitempty" gorm:"foreignKey:SurveyResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Metadata        map[string]string `json:"metadata,omitempty" gorm:"serializer:json"`
	StartedAt       time.Time         `json:"started_at"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

// Answer is the latest value a respondent gave for one question.
// Value may be a string, a list of strings, or a number.
type Answer struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	SurveyResponseID uint           `json:"survey_response_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index"`
	QuestionText     string         `json:"question_text" gorm:"type:text"`
	QuestionType     QuestionType   `json:"question_type"`
	Value            any            `json:"value" gorm:"serializer:json"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func NewSurveyResponse(surveyID uint, respondentID, respondentEmail *string, metadata map[string]string) *SurveyResponse {
	return &SurveyResponse{
		ResponseUID:     uuid.NewString(),
		SurveyID:        surveyID,
		RespondentID:    respondentID,
		RespondentEmail: respondentEmail,
		Metadata:        metadata,
		StartedAt:       time.Now(),
	}
}

// AddAnswer records the latest answer for a question. Last write wins: a
// repeat for the same question replaces the earlier value.
func (r *SurveyResponse) AddAnswer(question *Question, value any) error {
	if r.SubmittedAt != nil {
		return apperr.BusinessRule("cannot add answers to a submitted response")
	}
	for i := range r.Answers {
		if r.Answers[i].QuestionID == question.ID {
			r.Answers[i].QuestionText = question.Text
			r.Answers[i].QuestionType = question.Type
			r.Answers[i].Value = value
			return nil
		}
	}
	r.Answers = append(r.Answers, Answer{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		QuestionType: question.Type,
		Value:        value,
	})
	return nil
}

func (r *SurveyResponse) AnswerCount() int { return len(r.Answers) }

func (r *SurveyResponse) IsSubmitted() bool { return r.SubmittedAt != nil }

// Submit finalizes the response. A second call is an error rather than a
// silent overwrite of SubmittedAt.
func (r *SurveyResponse) Submit() error {
	if r.SubmittedAt != nil {
		return apperr.BusinessRule("response has already been submitted")
	}
	if len(r.Answers) == 0 {
		return apperr.BusinessRule("cannot submit empty response")
	}
	now := time.Now()
	r.SubmittedAt = &now
	return nil
}
