package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/dto"
	"github.com/ryoshumei/intelliquest/internal/model"
	"github.com/ryoshumei/intelliquest/internal/repository"
)

// maxBatchSize caps a single generate-multiple ask.
const maxBatchSize = 10

// DynamicQuestionService coordinates the Survey aggregate with the external
// generator across single, batch and regenerate flows.
//
// Failure policy: input-shape problems are returned as errors before any I/O;
// everything after (missing survey, ineligibility, generator failure) is
// caught and converted into a result with Success=false so API boundaries
// never see unhandled failures.
type DynamicQuestionService interface {
	GenerateOne(ctx context.Context, surveyID uint, req dto.GenerateOneDTO) (*dto.GenerateOneResult, error)
	GenerateMultiple(ctx context.Context, surveyID uint, req dto.GenerateBatchDTO) (*dto.GenerateBatchResult, error)
	Regenerate(ctx context.Context, surveyID uint, req dto.RegenerateDTO) (*dto.RegenerateResult, error)
}

type dynamicQuestionService struct {
	surveyRepo repository.SurveyRepository
	generator  QuestionGenerator
	bus        EventBus
}

func NewDynamicQuestionService(surveyRepo repository.SurveyRepository, generator QuestionGenerator, bus EventBus) DynamicQuestionService {
	return &dynamicQuestionService{surveyRepo: surveyRepo, generator: generator, bus: bus}
}

func (s *dynamicQuestionService) GenerateOne(ctx context.Context, surveyID uint, req dto.GenerateOneDTO) (*dto.GenerateOneResult, error) {
	if surveyID == 0 {
		return nil, apperr.Validation("survey id is required")
	}
	if req.CurrentQuestionIndex < 0 {
		return nil, apperr.Validation("current question index cannot be negative")
	}

	survey, err := s.surveyRepo.FindByIDWithQuestions(surveyID)
	if err != nil {
		return &dto.GenerateOneResult{Success: false, Error: err.Error()}, nil
	}
	if !survey.CanGenerateDynamicQuestions() {
		return failOne(survey, apperr.BusinessRule("survey is not eligible for dynamic question generation")), nil
	}

	question, err := s.generator.GenerateDynamicQuestion(ctx, s.generationParams(survey, req.PreviousAnswers, req.CurrentQuestionIndex, 1))
	if err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("Dynamic question generation failed")
		return failOne(survey, err), nil
	}

	survey.AddDynamicQuestion(question)
	if err := s.surveyRepo.Save(survey); err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("Failed to persist survey after dynamic append")
		return failOne(survey, err), nil
	}
	s.publish(survey)

	appended := survey.Questions[len(survey.Questions)-1]
	q := toQuestionResponse(&appended)
	return &dto.GenerateOneResult{
		Success:         true,
		Question:        &q,
		TotalQuestions:  survey.TotalQuestions(),
		CanGenerateMore: survey.CanGenerateDynamicQuestions(),
	}, nil
}

func (s *dynamicQuestionService) GenerateMultiple(ctx context.Context, surveyID uint, req dto.GenerateBatchDTO) (*dto.GenerateBatchResult, error) {
	if surveyID == 0 {
		return nil, apperr.Validation("survey id is required")
	}
	if req.CurrentQuestionIndex < 0 {
		return nil, apperr.Validation("current question index cannot be negative")
	}
	if req.QuestionCount < 1 || req.QuestionCount > maxBatchSize {
		return nil, apperr.Validation("question count must be between 1 and %d", maxBatchSize)
	}

	survey, err := s.surveyRepo.FindByIDWithQuestions(surveyID)
	if err != nil {
		return &dto.GenerateBatchResult{Success: false, RequestedCount: req.QuestionCount, Error: err.Error()}, nil
	}
	if !survey.CanGenerateDynamicQuestions() {
		return failBatch(survey, req.QuestionCount, apperr.BusinessRule("survey is not eligible for dynamic question generation")), nil
	}

	toRequest := req.QuestionCount
	if slots := survey.AvailableSlots(); toRequest > slots {
		toRequest = slots
	}
	if toRequest == 0 {
		return failBatch(survey, req.QuestionCount, apperr.BusinessRule("question limit reached")), nil
	}

	generated, err := s.generator.GenerateDynamicQuestions(ctx, s.generationParams(survey, req.PreviousAnswers, req.CurrentQuestionIndex, toRequest))
	if err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Int("requested", toRequest).Msg("Dynamic batch generation failed")
		return failBatch(survey, req.QuestionCount, err), nil
	}

	// The generator may return more or fewer questions than asked; append one
	// at a time and re-check eligibility before each so the total never
	// exceeds MaxQuestions.
	appended := 0
	for _, question := range generated {
		if !survey.CanGenerateDynamicQuestions() {
			break
		}
		survey.AddDynamicQuestion(question)
		appended++
	}

	if appended > 0 {
		if err := s.surveyRepo.Save(survey); err != nil {
			log.Error().Err(err).Uint("surveyID", surveyID).Msg("Failed to persist survey after dynamic batch append")
			return failBatch(survey, req.QuestionCount, err), nil
		}
		s.publish(survey)
	}

	questions := make([]dto.QuestionResponse, 0, appended)
	start := len(survey.Questions) - appended
	for i := start; i < len(survey.Questions); i++ {
		questions = append(questions, toQuestionResponse(&survey.Questions[i]))
	}
	return &dto.GenerateBatchResult{
		Success:         true,
		Questions:       questions,
		RequestedCount:  req.QuestionCount,
		GeneratedCount:  appended,
		TotalQuestions:  survey.TotalQuestions(),
		CanGenerateMore: survey.CanGenerateDynamicQuestions(),
	}, nil
}

func (s *dynamicQuestionService) Regenerate(ctx context.Context, surveyID uint, req dto.RegenerateDTO) (*dto.RegenerateResult, error) {
	if surveyID == 0 {
		return nil, apperr.Validation("survey id is required")
	}
	if req.CurrentQuestionIndex < 0 {
		return nil, apperr.Validation("current question index cannot be negative")
	}
	if req.DesiredCount != nil && *req.DesiredCount < 0 {
		return nil, apperr.Validation("desired count cannot be negative")
	}

	survey, err := s.surveyRepo.FindByIDWithQuestions(surveyID)
	if err != nil {
		return &dto.RegenerateResult{Success: false, Error: err.Error()}, nil
	}

	previousCount := survey.DynamicCount()
	survey.ClearDynamicQuestions()
	if err := s.surveyRepo.Save(survey); err != nil {
		log.Error().Err(err).Uint("surveyID", surveyID).Msg("Failed to persist survey after clearing dynamic questions")
		return &dto.RegenerateResult{Success: false, PreviousDynamicCount: previousCount, Error: err.Error()}, nil
	}

	desired := previousCount
	if req.DesiredCount != nil {
		desired = *req.DesiredCount
	}
	if desired > maxBatchSize {
		desired = maxBatchSize
	}
	if desired == 0 {
		return &dto.RegenerateResult{Success: true, PreviousDynamicCount: previousCount, NewDynamicCount: 0}, nil
	}

	batch, err := s.GenerateMultiple(ctx, surveyID, dto.GenerateBatchDTO{
		PreviousAnswers:      req.UpdatedAnswers,
		CurrentQuestionIndex: req.CurrentQuestionIndex,
		QuestionCount:        desired,
	})
	if err != nil {
		return &dto.RegenerateResult{Success: false, PreviousDynamicCount: previousCount, Error: err.Error()}, nil
	}
	if !batch.Success {
		return &dto.RegenerateResult{Success: false, PreviousDynamicCount: previousCount, Error: batch.Error}, nil
	}
	return &dto.RegenerateResult{
		Success:              true,
		PreviousDynamicCount: previousCount,
		NewDynamicCount:      batch.GeneratedCount,
		Questions:            batch.Questions,
	}, nil
}

func (s *dynamicQuestionService) generationParams(survey *model.Survey, answers []dto.AnswerContextDTO, index, count int) GenerationParams {
	previous := make([]AnswerContext, 0, len(answers))
	for _, a := range answers {
		previous = append(previous, AnswerContext{QuestionID: a.QuestionID, QuestionText: a.QuestionText, Answer: a.Answer})
	}
	existing := make([]string, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		existing = append(existing, q.Text)
	}
	return GenerationParams{
		SurveyTitle:          survey.Title,
		SurveyDescription:    survey.Description,
		Goal:                 survey.Goal,
		TargetLanguage:       survey.TargetLanguage,
		MaxQuestions:         survey.MaxQuestions,
		QuestionCount:        count,
		ExistingQuestions:    existing,
		PreviousAnswers:      previous,
		CurrentQuestionIndex: index,
	}
}

func (s *dynamicQuestionService) publish(survey *model.Survey) {
	for _, event := range survey.PullEvents() {
		s.bus.Publish(event)
	}
}

func failOne(survey *model.Survey, err error) *dto.GenerateOneResult {
	return &dto.GenerateOneResult{
		Success:         false,
		TotalQuestions:  survey.TotalQuestions(),
		CanGenerateMore: survey.CanGenerateDynamicQuestions(),
		Error:           err.Error(),
	}
}

func failBatch(survey *model.Survey, requested int, err error) *dto.GenerateBatchResult {
	return &dto.GenerateBatchResult{
		Success:         false,
		RequestedCount:  requested,
		TotalQuestions:  survey.TotalQuestions(),
		CanGenerateMore: survey.CanGenerateDynamicQuestions(),
		Error:           err.Error(),
	}
}
