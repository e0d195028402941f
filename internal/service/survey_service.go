package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/dto"
	"github.com/ryoshumei/intelliquest/internal/model"
	"github.com/ryoshumei/intelliquest/internal/repository"
)

type SurveyService interface {
	CreateSurvey(ctx context.Context, req dto.SurveyCreateDTO) (*dto.SurveyResponse, error)
	GetSurvey(id uint) (*dto.SurveyResponse, error)
	ListSurveys(page, limit int) (*dto.SurveyListResponse, error)
	DeleteSurvey(id uint) error
}

type surveyService struct {
	surveyRepo repository.SurveyRepository
	generator  QuestionGenerator
	bus        EventBus
}

func NewSurveyService(surveyRepo repository.SurveyRepository, generator QuestionGenerator, bus EventBus) SurveyService {
	return &surveyService{surveyRepo: surveyRepo, generator: generator, bus: bus}
}

// CreateSurvey builds a survey from manual and/or AI-authored questions.
// Domain failures surface to the caller unchanged; infrastructure failures
// are wrapped with a generic message.
func (s *surveyService) CreateSurvey(ctx context.Context, req dto.SurveyCreateDTO) (*dto.SurveyResponse, error) {
	survey, err := model.NewSurvey(req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	survey.UserID = req.UserID

	if req.Goal != "" {
		survey.SetGoal(req.Goal)
	}
	if req.MaxQuestions != nil {
		if err := survey.SetMaxQuestions(*req.MaxQuestions); err != nil {
			return nil, err
		}
	}
	if req.TargetLanguage != "" {
		survey.SetTargetLanguage(req.TargetLanguage)
	}
	if req.AutoTranslate != nil {
		survey.SetAutoTranslate(*req.AutoTranslate)
	}

	for _, qDto := range req.Questions {
		question, err := model.NewQuestion(qDto.Text, model.QuestionType(qDto.Type), qDto.Options, qDto.IsRequired)
		if err != nil {
			return nil, err
		}
		if err := survey.AddQuestion(question); err != nil {
			return nil, err
		}
	}

	if req.AIGeneration != nil {
		requested := req.AIGeneration.QuestionCount
		if survey.StaticCount()+requested > model.MaxStaticQuestions {
			return nil, apperr.BusinessRule("survey would exceed %d questions: %d existing plus %d requested",
				model.MaxStaticQuestions, survey.StaticCount(), requested)
		}
		goal := req.AIGeneration.Goal
		if goal == "" {
			goal = survey.Goal
		}
		existing := make([]string, 0, survey.StaticCount())
		for _, q := range survey.StaticQuestions() {
			existing = append(existing, q.Text)
		}
		generated, err := s.generator.GenerateQuestions(ctx, GenerationParams{
			SurveyTitle:       survey.Title,
			SurveyDescription: survey.Description,
			Goal:              goal,
			TargetLanguage:    survey.TargetLanguage,
			MaxQuestions:      survey.MaxQuestions,
			QuestionCount:     requested,
			ExistingQuestions: existing,
		})
		if err != nil {
			log.Error().Err(err).Str("title", survey.Title).Msg("AI question generation failed during survey creation")
			return nil, fmt.Errorf("failed to generate survey questions: %w", err)
		}
		for _, q := range generated {
			if err := survey.AddQuestion(q); err != nil {
				return nil, err
			}
		}
	}

	if err := s.surveyRepo.Create(survey); err != nil {
		log.Error().Err(err).Str("title", survey.Title).Msg("Failed to persist survey")
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}

	for _, event := range survey.PullEvents() {
		s.bus.Publish(event)
	}

	return toSurveyResponse(survey), nil
}

func (s *surveyService) GetSurvey(id uint) (*dto.SurveyResponse, error) {
	survey, err := s.surveyRepo.FindByIDWithQuestions(id)
	if err != nil {
		return nil, err
	}
	return toSurveyResponse(survey), nil
}

func (s *surveyService) ListSurveys(page, limit int) (*dto.SurveyListResponse, error) {
	surveys, total, err := s.surveyRepo.FindWithPagination(page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	out := make([]dto.SurveyResponse, 0, len(surveys))
	for i := range surveys {
		out = append(out, *toSurveyResponse(&surveys[i]))
	}
	return &dto.SurveyListResponse{Surveys: out, Total: total, Page: page, Limit: limit}, nil
}

func (s *surveyService) DeleteSurvey(id uint) error {
	return s.surveyRepo.Delete(id)
}

// toSurveyResponse maps the aggregate to its public DTO, including the
// derived predicate fields.
func toSurveyResponse(survey *model.Survey) *dto.SurveyResponse {
	var resp dto.SurveyResponse
	if err := copier.Copy(&resp, survey); err != nil {
		log.Error().Err(err).Uint("surveyID", survey.ID).Msg("Failed to copy survey to DTO")
	}
	resp.Questions = make([]dto.QuestionResponse, 0, len(survey.Questions))
	for i := range survey.Questions {
		resp.Questions = append(resp.Questions, toQuestionResponse(&survey.Questions[i]))
	}
	resp.StaticCount = survey.StaticCount()
	resp.DynamicCount = survey.DynamicCount()
	resp.CanPublish = survey.CanBePublished()
	resp.CanGenerate = survey.CanGenerateDynamicQuestions()
	return &resp
}

func toQuestionResponse(q *model.Question) dto.QuestionResponse {
	var resp dto.QuestionResponse
	if err := copier.Copy(&resp, q); err != nil {
		log.Error().Err(err).Uint("questionID", q.ID).Msg("Failed to copy question to DTO")
	}
	resp.Type = string(q.Type)
	return resp
}
