package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/config"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/model"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type geminiGeneratorService struct {
	client  *genai.GenerativeModel
	cfg     *config.Config
	limiter *rate.Limiter
}

// NewGeminiGeneratorService builds the Gemini-backed generator. With no API
// key the service stays constructible but reports unavailable and serves
// fallback questions only.
func NewGeminiGeneratorService(cfg *config.Config) (QuestionGenerator, error) {
	limiter := rate.NewLimiter(rate.Every(cfg.Generation.MinInterval), 1)
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will use fallback questions only.")
		return &geminiGeneratorService{cfg: cfg, client: nil, limiter: limiter}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	geminiModel := client.GenerativeModel("gemini-1.5-flash")
	return &geminiGeneratorService{client: geminiModel, cfg: cfg, limiter: limiter}, nil
}

func (s *geminiGeneratorService) IsAvailable() bool {
	return s.client != nil
}

// generatedQuestion is the JSON shape the model is instructed to return.
type generatedQuestion struct {
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options"`
	IsRequired bool     `json:"is_required"`
}

func (s *geminiGeneratorService) GenerateQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error) {
	questions, err := s.generate(ctx, params)
	if err != nil {
		log.Warn().Err(err).Str("goal", params.Goal).Int("count", params.QuestionCount).Msg("Generator unreachable, using fallback questions")
		return fallbackQuestions(params), nil
	}
	return questions, nil
}

func (s *geminiGeneratorService) GenerateDynamicQuestion(ctx context.Context, params GenerationParams) (*model.Question, error) {
	params.QuestionCount = 1
	questions, err := s.GenerateDynamicQuestions(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.ServiceUnavailable("generator returned no questions")
	}
	return questions[0], nil
}

func (s *geminiGeneratorService) GenerateDynamicQuestions(ctx context.Context, params GenerationParams) ([]*model.Question, error) {
	questions, err := s.generate(ctx, params)
	if err != nil {
		log.Warn().Err(err).Str("goal", params.Goal).Int("count", params.QuestionCount).Msg("Generator unreachable, using fallback questions")
		return fallbackQuestions(params), nil
	}
	return questions, nil
}

// generate performs the rate-limited, retried Gemini round trip and parses the
// returned JSON into validated questions.
func (s *geminiGeneratorService) generate(ctx context.Context, params GenerationParams) ([]*model.Question, error) {
	if s.client == nil {
		return nil, apperr.ServiceUnavailable("gemini client not initialized")
	}

	prompt := buildGenerationPrompt(params)
	raw, err := s.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var items []generatedQuestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &items); err != nil {
		log.Warn().Err(err).Str("rawResponse", raw).Msg("Failed to parse generator JSON response")
		return nil, apperr.ServiceUnavailable("generator returned malformed JSON: %v", err)
	}

	questions := make([]*model.Question, 0, len(items))
	for _, item := range items {
		q, err := model.NewAIQuestion(item.Text, model.QuestionType(item.Type), item.Options, item.IsRequired)
		if err != nil {
			log.Warn().Err(err).Str("text", item.Text).Str("type", item.Type).Msg("Skipping invalid generated question")
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, apperr.ServiceUnavailable("generator returned no usable questions")
	}
	return questions, nil
}

// callWithRetry enforces minimum inter-request spacing, a per-attempt timeout,
// and bounded exponential backoff. Timeouts count as retryable failures.
func (s *geminiGeneratorService) callWithRetry(ctx context.Context, prompt string) (string, error) {
	backoff := s.cfg.Generation.InitialBackoff
	var lastErr error

	for attempt := 0; attempt <= s.cfg.Generation.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", apperr.ServiceUnavailable("generation cancelled: %v", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return "", apperr.ServiceUnavailable("generation cancelled: %v", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Generation.RequestTimeout)
		resp, err := s.client.GenerateContent(attemptCtx, genai.Text(prompt))
		cancel()
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt+1).Msg("Gemini call failed")
			continue
		}

		text := candidateText(resp)
		if text == "" {
			lastErr = fmt.Errorf("gemini returned no text content")
			continue
		}
		return text, nil
	}
	return "", apperr.ServiceUnavailable("gemini unreachable after %d attempts: %v", s.cfg.Generation.MaxRetries+1, lastErr)
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

func buildGenerationPrompt(params GenerationParams) string {
	var b strings.Builder
	b.WriteString("You are a survey design expert helping an author build an adaptive questionnaire.\n")
	fmt.Fprintf(&b, "Survey title: %s\n", params.SurveyTitle)
	if params.SurveyDescription != "" {
		fmt.Fprintf(&b, "Survey description: %s\n", params.SurveyDescription)
	}
	fmt.Fprintf(&b, "Survey goal: %s\n", params.Goal)
	if params.TargetLanguage != "" {
		fmt.Fprintf(&b, "Write all question text in language: %s\n", params.TargetLanguage)
	}
	if len(params.ExistingQuestions) > 0 {
		b.WriteString("\nQuestions already in the survey (do not repeat them):\n")
		for _, q := range params.ExistingQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	if len(params.PreviousAnswers) > 0 {
		b.WriteString("\nThe respondent has answered so far:\n")
		for _, a := range params.PreviousAnswers {
			fmt.Fprintf(&b, "- Q: %s A: %v\n", a.QuestionText, a.Answer)
		}
		fmt.Fprintf(&b, "The respondent is currently at question index %d.\n", params.CurrentQuestionIndex)
		b.WriteString("Generate follow-up questions that dig deeper into these answers.\n")
	}
	fmt.Fprintf(&b, "\nGenerate exactly %d question(s).\n", params.QuestionCount)
	b.WriteString(`Respond with ONLY a JSON array, no prose, where each element is:
{"text": "...", "type": "...", "options": ["..."], "is_required": false}
Allowed types: text, textarea, single_choice, multiple_choice, scale, yes_no, email, number, date, ranking.
single_choice, multiple_choice and ranking need at least 2 options.
scale needs exactly 2 options: the minimum and maximum labels.
Other types must use an empty options array.
`)
	return b.String()
}

// fallbackQuestions is the deterministic set served when the generator stays
// unreachable, so a respondent's flow keeps moving.
func fallbackQuestions(params GenerationParams) []*model.Question {
	templates := []struct {
		text    string
		qType   model.QuestionType
		options []string
	}{
		{fmt.Sprintf("What is most important to you about %s?", strings.TrimSpace(params.Goal)), model.QuestionTypeTextarea, nil},
		{fmt.Sprintf("How satisfied are you so far regarding %s?", strings.TrimSpace(params.Goal)), model.QuestionTypeScale, []string{"Not satisfied", "Very satisfied"}},
		{"Is there anything you would change?", model.QuestionTypeText, nil},
		{"Would you recommend this to others?", model.QuestionTypeYesNo, nil},
	}

	count := params.QuestionCount
	if count < 1 {
		count = 1
	}
	questions := make([]*model.Question, 0, count)
	for i := 0; i < count; i++ {
		t := templates[i%len(templates)]
		q, err := model.NewAIQuestion(t.text, t.qType, t.options, false)
		if err != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON payload.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.Index(trimmed, "```"); idx != -1 {
		trimmed = trimmed[idx+3:]
		trimmed = strings.TrimPrefix(trimmed, "json")
		if end := strings.Index(trimmed, "```"); end != -1 {
			trimmed = trimmed[:end]
		}
	}
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start != -1 && end > start {
		return trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}
