package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ryoshumei/intelliquest/config"
	"github.com/ryoshumei/intelliquest/internal/model"
)

func offlineGeneratorConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Generation.MaxRetries = 1
	cfg.Generation.InitialBackoff = time.Millisecond
	cfg.Generation.MinInterval = time.Millisecond
	cfg.Generation.RequestTimeout = time.Second
	return cfg
}

func TestGeneratorWithoutKeyServesFallback(t *testing.T) {
	gen, err := NewGeminiGeneratorService(offlineGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGeminiGeneratorService: %v", err)
	}
	if gen.IsAvailable() {
		t.Fatalf("keyless generator should report unavailable")
	}

	questions, err := gen.GenerateDynamicQuestions(context.Background(), GenerationParams{
		Goal:          "improve onboarding",
		QuestionCount: 3,
	})
	if err != nil {
		t.Fatalf("GenerateDynamicQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 fallback questions, got %d", len(questions))
	}
	for _, q := range questions {
		if !q.IsAIGenerated {
			t.Fatalf("fallback question not flagged AI generated: %+v", q)
		}
		if err := validateGenerated(q); err != nil {
			t.Fatalf("fallback question invalid: %v", err)
		}
	}
}

func validateGenerated(q *model.Question) error {
	_, err := model.NewAIQuestion(q.Text, q.Type, q.Options, q.IsRequired)
	return err
}

func TestGeneratorSingleFallback(t *testing.T) {
	gen, err := NewGeminiGeneratorService(offlineGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGeminiGeneratorService: %v", err)
	}
	q, err := gen.GenerateDynamicQuestion(context.Background(), GenerationParams{Goal: "retention"})
	if err != nil {
		t.Fatalf("GenerateDynamicQuestion: %v", err)
	}
	if q == nil || q.Text == "" {
		t.Fatalf("expected a usable fallback question, got %+v", q)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"text":"q"}]`, `[{"text":"q"}]`},
		{"fenced", "```json\n[{\"text\":\"q\"}]\n```", `[{"text":"q"}]`},
		{"fenced no lang", "```\n[1, 2]\n```", `[1, 2]`},
		{"prose around array", "Here you go:\n[{\"text\":\"q\"}]\nEnjoy!", `[{"text":"q"}]`},
		{"leading whitespace", "  \n [true] ", `[true]`},
	}
	for _, c := range cases {
		if got := extractJSON(c.in); got != c.want {
			t.Errorf("%s: extractJSON(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

func TestBuildGenerationPromptIncludesContext(t *testing.T) {
	prompt := buildGenerationPrompt(GenerationParams{
		SurveyTitle:          "Onboarding",
		Goal:                 "improve onboarding",
		TargetLanguage:       "ja",
		QuestionCount:        2,
		ExistingQuestions:    []string{"What is your role?"},
		PreviousAnswers:      []AnswerContext{{QuestionText: "What is your role?", Answer: "engineer"}},
		CurrentQuestionIndex: 1,
	})
	for _, fragment := range []string{
		"improve onboarding",
		"What is your role?",
		"engineer",
		"question index 1",
		"Generate exactly 2 question(s).",
		"language: ja",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestFallbackQuestionsMinimumOne(t *testing.T) {
	questions := fallbackQuestions(GenerationParams{Goal: "goal", QuestionCount: 0})
	if len(questions) != 1 {
		t.Fatalf("expected at least one fallback question, got %d", len(questions))
	}
}
