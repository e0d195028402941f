package model

import (
	"testing"

	"github.com/ryoshumei/intelliquest/internal/apperr"
)

func TestNewSurveyResponse(t *testing.T) {
	email := "alice@example.com"
	r := NewSurveyResponse(3, nil, &email, map[string]string{"channel": "web"})
	if r.SurveyID != 3 || r.ResponseUID == "" {
		t.Fatalf("unexpected response: %+v", r)
	}
	if r.StartedAt.IsZero() {
		t.Fatalf("expected StartedAt to be set")
	}
	if r.IsSubmitted() {
		t.Fatalf("new response should not be submitted")
	}
}

func TestSubmitEmptyResponse(t *testing.T) {
	r := NewSurveyResponse(1, nil, nil, nil)
	err := r.Submit()
	if !apperr.IsBusinessRule(err) {
		t.Fatalf("expected business rule violation, got %v", err)
	}
	if err.Error() != "cannot submit empty response" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestAddAnswerAfterSubmit(t *testing.T) {
	r := NewSurveyResponse(1, nil, nil, nil)
	q, _ := NewQuestion("Q1", QuestionTypeText, nil, false)
	q.ID = 1
	if err := r.AddAnswer(q, "first"); err != nil {
		t.Fatalf("AddAnswer: %v", err)
	}
	if err := r.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := r.AddAnswer(q, "late"); !apperr.IsBusinessRule(err) {
		t.Fatalf("expected business rule violation after submit, got %v", err)
	}
}

func TestDoubleSubmit(t *testing.T) {
	r := NewSurveyResponse(1, nil, nil, nil)
	q, _ := NewQuestion("Q1", QuestionTypeText, nil, false)
	q.ID = 1
	r.AddAnswer(q, "value")
	if err := r.Submit(); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if err := r.Submit(); !apperr.IsBusinessRule(err) {
		t.Fatalf("expected error on second submit, got %v", err)
	}
}

func TestAddAnswerLastWriteWins(t *testing.T) {
	r := NewSurveyResponse(1, nil, nil, nil)
	q, _ := NewQuestion("Q1", QuestionTypeText, nil, false)
	q.ID = 9
	r.AddAnswer(q, "first")
	r.AddAnswer(q, "second")
	if r.AnswerCount() != 1 {
		t.Fatalf("expected 1 answer after overwrite, got %d", r.AnswerCount())
	}
	if r.Answers[0].Value != "second" {
		t.Fatalf("expected latest value, got %v", r.Answers[0].Value)
	}
}
