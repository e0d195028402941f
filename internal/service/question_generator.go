package service

import (
	"context"

	"github.com/ryoshumei/intelliquest/internal/model"
)

// AnswerContext is one prior answer handed to the generator as grounding.
type AnswerContext struct {
	QuestionID   uint
	QuestionText string
	Answer       any
}

// GenerationParams describes one generation request.
type GenerationParams struct {
	SurveyTitle          string
	SurveyDescription    string
	Goal                 string
	TargetLanguage       string
	MaxQuestions         int
	QuestionCount        int
	ExistingQuestions    []string
	PreviousAnswers      []AnswerContext
	CurrentQuestionIndex int
}

// QuestionGenerator is the narrow contract the use cases depend on, so tests
// can substitute a deterministic stub for the Gemini client.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error)
	GenerateDynamicQuestion(ctx context.Context, params GenerationParams) (*model.Question, error)
	GenerateDynamicQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error)
	IsAvailable() bool
}
