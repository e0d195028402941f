package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/config"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"google.golang.org/api/option"
)

// batchWorkers bounds translation fan-out to a small fixed number of
// parallel requests.
const batchWorkers = 3

var supportedLanguages = []string{"en", "ja", "zh", "es", "fr", "de", "ko", "pt", "it", "ru"}

// Translator is the narrow contract the submission flow depends on.
type Translator interface {
	TranslateText(ctx context.Context, text, targetLang string) (string, error)
	TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error)
	DetectLanguage(ctx context.Context, text string) (string, error)
	GetSupportedLanguages() []string
	IsTranslationNeeded(sourceLang, targetLang string) bool
}

type geminiTranslationService struct {
	client *genai.GenerativeModel
}

func NewTranslationService(cfg *config.Config) (Translator, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Translation will pass text through unchanged.")
		return &geminiTranslationService{client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client for translation: %w", err)
	}
	return &geminiTranslationService{client: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (s *geminiTranslationService) TranslateText(ctx context.Context, text, targetLang string) (string, error) {
	if s.client == nil {
		return text, apperr.ServiceUnavailable("translation client not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	prompt := fmt.Sprintf("Translate the following text into %s. Respond with ONLY the translated text, nothing else.\n\n%s", targetLang, text)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return text, apperr.ServiceUnavailable("translation failed: %v", err)
	}
	out := strings.TrimSpace(candidateText(resp))
	if out == "" {
		return text, apperr.ServiceUnavailable("translation returned empty text")
	}
	return out, nil
}

// TranslateBatch translates texts over a small fixed worker pool. Per-item
// failures degrade to the original, untranslated value.
func (s *geminiTranslationService) TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	out := make([]string, len(texts))
	copy(out, texts)
	if s.client == nil || len(texts) == 0 {
		return out, nil
	}

	jobs := make(chan int, len(texts))
	for i := range texts {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < batchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				translated, err := s.TranslateText(ctx, texts[i], targetLang)
				if err != nil {
					log.Warn().Err(err).Int("index", i).Msg("Batch translation item failed, keeping original text")
					continue
				}
				out[i] = translated
			}
		}()
	}
	wg.Wait()
	return out, nil
}

func (s *geminiTranslationService) DetectLanguage(ctx context.Context, text string) (string, error) {
	if s.client == nil {
		return "", apperr.ServiceUnavailable("translation client not initialized")
	}
	prompt := fmt.Sprintf("Detect the language of the following text. Respond with ONLY the ISO 639-1 two-letter code.\n\n%s", text)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", apperr.ServiceUnavailable("language detection failed: %v", err)
	}
	code := strings.ToLower(strings.TrimSpace(candidateText(resp)))
	if len(code) > 5 {
		return "", apperr.ServiceUnavailable("language detection returned unexpected output %q", code)
	}
	return code, nil
}

func (s *geminiTranslationService) GetSupportedLanguages() []string {
	langs := make([]string, len(supportedLanguages))
	copy(langs, supportedLanguages)
	return langs
}

func (s *geminiTranslationService) IsTranslationNeeded(sourceLang, targetLang string) bool {
	src := normalizeLang(sourceLang)
	dst := normalizeLang(targetLang)
	if src == "" || dst == "" {
		return false
	}
	return src != dst
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if idx := strings.IndexAny(lang, "-_"); idx != -1 {
		lang = lang[:idx]
	}
	return lang
}
