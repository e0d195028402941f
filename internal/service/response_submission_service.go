package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/internal/dto"
	"github.com/ryoshumei/intelliquest/internal/model"
	"github.com/ryoshumei/intelliquest/internal/repository"
)

// ResponseSubmissionService validates and persists a respondent's answers
// against the survey's combined static+dynamic question set.
type ResponseSubmissionService interface {
	SubmitResponse(ctx context.Context, surveyID uint, req dto.SubmitResponseDTO) *dto.SubmissionResult
	ListResponses(surveyID uint, page, limit int) ([]dto.ResponseSummary, int64, error)
}

type responseSubmissionService struct {
	surveyRepo   repository.SurveyRepository
	responseRepo repository.SurveyResponseRepository
	translator   Translator
	bus          EventBus
}

func NewResponseSubmissionService(
	surveyRepo repository.SurveyRepository,
	responseRepo repository.SurveyResponseRepository,
	translator Translator,
	bus EventBus,
) ResponseSubmissionService {
	return &responseSubmissionService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		translator:   translator,
		bus:          bus,
	}
}

// SubmitResponse never fails past its boundary: every failure is converted
// into a result with Success=false.
func (s *responseSubmissionService) SubmitResponse(ctx context.Context, surveyID uint, req dto.SubmitResponseDTO) *dto.SubmissionResult {
	survey, err := s.surveyRepo.FindByIDWithQuestions(surveyID)
	if err != nil {
		return &dto.SubmissionResult{Success: false, Message: err.Error()}
	}

	response := model.NewSurveyResponse(surveyID, req.RespondentID, req.RespondentEmail, req.Metadata)

	answers := s.translateAnswers(ctx, survey, req.Answers)
	for _, a := range answers {
		question, ok := survey.FindQuestion(a.QuestionID)
		if !ok {
			// Tolerant of late-arriving dynamic questions not yet reflected
			// in the loaded survey.
			log.Warn().Uint("questionID", a.QuestionID).Uint("surveyID", surveyID).Msg("Answer references unknown question, skipping")
			continue
		}
		if err := response.AddAnswer(question, a.Answer); err != nil {
			return &dto.SubmissionResult{Success: false, Message: err.Error()}
		}
	}

	if err := response.Submit(); err != nil {
		return &dto.SubmissionResult{Success: false, Message: err.Error()}
	}

	if err := s.responseRepo.Create(response); err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("Failed to persist survey response")
		return &dto.SubmissionResult{Success: false, Message: "failed to save response"}
	}

	s.bus.Publish(model.DomainEvent{
		Name:     model.EventResponseSubmitted,
		SurveyID: surveyID,
		Payload: map[string]any{
			"response_uid": response.ResponseUID,
			"answer_count": response.AnswerCount(),
		},
		OccurredAt: time.Now(),
	})

	return &dto.SubmissionResult{
		Success:     true,
		ResponseUID: response.ResponseUID,
		Message:     "Response submitted successfully",
	}
}

// translateAnswers rewrites free-text answers into the survey's target
// language when auto-translate is on. Any translation failure keeps the
// original text.
func (s *responseSubmissionService) translateAnswers(ctx context.Context, survey *model.Survey, answers []dto.SubmitAnswerDTO) []dto.SubmitAnswerDTO {
	if !survey.AutoTranslate || survey.TargetLanguage == "" {
		return answers
	}

	var texts []string
	var indexes []int
	for i, a := range answers {
		if text, ok := a.Answer.(string); ok && text != "" {
			texts = append(texts, text)
			indexes = append(indexes, i)
		}
	}
	if len(texts) == 0 {
		return answers
	}

	detected, err := s.translator.DetectLanguage(ctx, texts[0])
	if err != nil {
		log.Warn().Err(err).Uint("surveyID", survey.ID).Msg("Language detection failed, keeping answers untranslated")
		return answers
	}
	if !s.translator.IsTranslationNeeded(detected, survey.TargetLanguage) {
		return answers
	}

	translated, err := s.translator.TranslateBatch(ctx, texts, survey.TargetLanguage)
	if err != nil {
		log.Warn().Err(err).Uint("surveyID", survey.ID).Msg("Batch translation failed, keeping answers untranslated")
		return answers
	}
	out := make([]dto.SubmitAnswerDTO, len(answers))
	copy(out, answers)
	for j, i := range indexes {
		out[i].Answer = translated[j]
	}
	return out
}

func (s *responseSubmissionService) ListResponses(surveyID uint, page, limit int) ([]dto.ResponseSummary, int64, error) {
	if _, err := s.surveyRepo.FindByID(surveyID); err != nil {
		return nil, 0, err
	}
	responses, total, err := s.responseRepo.FindBySurveyID(surveyID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]dto.ResponseSummary, 0, len(responses))
	for _, r := range responses {
		summaries = append(summaries, dto.ResponseSummary{
			ResponseUID:     r.ResponseUID,
			SurveyID:        r.SurveyID,
			RespondentID:    r.RespondentID,
			RespondentEmail: r.RespondentEmail,
			AnswerCount:     r.AnswerCount(),
			StartedAt:       r.StartedAt,
			SubmittedAt:     r.SubmittedAt,
		})
	}
	return summaries, total, nil
}
