package model

import (
	"fmt"
	"testing"

	"github.com/ryoshumei/intelliquest/internal/apperr"
)

func mustQuestion(t *testing.T, text string) *Question {
	t.Helper()
	q, err := NewQuestion(text, QuestionTypeText, nil, false)
	if err != nil {
		t.Fatalf("NewQuestion(%q): %v", text, err)
	}
	return q
}

func mustAIQuestion(t *testing.T, text string) *Question {
	t.Helper()
	q, err := NewAIQuestion(text, QuestionTypeText, nil, false)
	if err != nil {
		t.Fatalf("NewAIQuestion(%q): %v", text, err)
	}
	return q
}

func TestNewSurveyBlankTitle(t *testing.T) {
	if _, err := NewSurvey("  ", "desc"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewSurveyQueuesCreatedEvent(t *testing.T) {
	s, err := NewSurvey("Onboarding survey", "")
	if err != nil {
		t.Fatalf("NewSurvey: %v", err)
	}
	s.ID = 42
	events := s.PullEvents()
	if len(events) != 1 || events[0].Name != EventSurveyCreated {
		t.Fatalf("expected one created event, got %+v", events)
	}
	if events[0].SurveyID != 42 {
		t.Fatalf("expected event stamped with survey id, got %d", events[0].SurveyID)
	}
	if len(s.PullEvents()) != 0 {
		t.Fatalf("expected queue drained after pull")
	}
}

func TestAddQuestionCap(t *testing.T) {
	s, _ := NewSurvey("Big survey", "")
	for i := 0; i < MaxStaticQuestions; i++ {
		if err := s.AddQuestion(mustQuestion(t, fmt.Sprintf("Question %d", i))); err != nil {
			t.Fatalf("AddQuestion %d: %v", i, err)
		}
	}
	err := s.AddQuestion(mustQuestion(t, "One too many"))
	if !apperr.IsBusinessRule(err) {
		t.Fatalf("expected business rule violation on question %d, got %v", MaxStaticQuestions+1, err)
	}
}

func TestRemoveQuestion(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	q := mustQuestion(t, "Q1")
	q.ID = 7
	if err := s.AddQuestion(q); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if err := s.RemoveQuestion(7); err != nil {
		t.Fatalf("RemoveQuestion: %v", err)
	}
	if err := s.RemoveQuestion(7); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCanGenerateDynamicQuestionsRequiresGoal(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	s.AddQuestion(mustQuestion(t, "Q1"))
	if s.CanGenerateDynamicQuestions() {
		t.Fatalf("empty goal should disable generation")
	}
	s.SetGoal("   ")
	if s.CanGenerateDynamicQuestions() {
		t.Fatalf("whitespace goal should disable generation")
	}
	s.SetGoal("improve onboarding")
	if !s.CanGenerateDynamicQuestions() {
		t.Fatalf("expected generation enabled with goal and free slots")
	}
}

func TestCanGenerateDynamicQuestionsRespectsLimit(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	s.SetGoal("improve onboarding")
	if err := s.SetMaxQuestions(5); err != nil {
		t.Fatalf("SetMaxQuestions: %v", err)
	}
	for i := 0; i < 5; i++ {
		s.AddQuestion(mustQuestion(t, fmt.Sprintf("Q%d", i)))
	}
	if s.CanGenerateDynamicQuestions() {
		t.Fatalf("generation should be disabled once total reaches the limit")
	}
	if s.AvailableSlots() != 0 {
		t.Fatalf("expected 0 slots, got %d", s.AvailableSlots())
	}
}

func TestAddDynamicQuestionDoesNotEnforceCap(t *testing.T) {
	// The ceiling is a caller-checked precondition, not enforced here.
	s, _ := NewSurvey("Survey", "")
	s.SetGoal("goal")
	s.SetMaxQuestions(5)
	for i := 0; i < 6; i++ {
		s.AddDynamicQuestion(mustAIQuestion(t, fmt.Sprintf("D%d", i)))
	}
	if s.DynamicCount() != 6 {
		t.Fatalf("expected 6 dynamic questions, got %d", s.DynamicCount())
	}
	if s.AvailableSlots() != 0 {
		t.Fatalf("slots should clamp at 0, got %d", s.AvailableSlots())
	}
}

func TestClearDynamicQuestions(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	s.AddQuestion(mustQuestion(t, "Static"))
	s.AddDynamicQuestion(mustAIQuestion(t, "D1"))
	s.AddDynamicQuestion(mustAIQuestion(t, "D2"))
	if removed := s.ClearDynamicQuestions(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if s.DynamicCount() != 0 || s.StaticCount() != 1 {
		t.Fatalf("expected only static questions left: static=%d dynamic=%d", s.StaticCount(), s.DynamicCount())
	}
}

func TestSetMaxQuestionsBounds(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	if err := s.SetMaxQuestions(4); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for 4, got %v", err)
	}
	if err := s.SetMaxQuestions(51); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for 51, got %v", err)
	}
	if err := s.SetMaxQuestions(5); err != nil {
		t.Fatalf("5 should be accepted: %v", err)
	}
	if err := s.SetMaxQuestions(50); err != nil {
		t.Fatalf("50 should be accepted: %v", err)
	}
}

func TestCanBePublished(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	if s.CanBePublished() {
		t.Fatalf("survey with no questions should not be publishable")
	}
	s.AddQuestion(mustQuestion(t, "Q1"))
	if !s.CanBePublished() {
		t.Fatalf("active survey with questions should be publishable")
	}
	s.SetActive(false)
	if s.CanBePublished() {
		t.Fatalf("inactive survey should not be publishable")
	}
}

func TestAddDynamicQuestionQueuesEvent(t *testing.T) {
	s, _ := NewSurvey("Survey", "")
	s.PullEvents()
	s.AddDynamicQuestion(mustAIQuestion(t, "Follow-up"))
	events := s.PullEvents()
	if len(events) != 1 || events[0].Name != EventDynamicQuestionAdded {
		t.Fatalf("expected dynamic question event, got %+v", events)
	}
}
