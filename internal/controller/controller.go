package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/dto"
	"github.com/ryoshumei/intelliquest/internal/service"
)

type Controller struct {
	surveySvc     service.SurveyService
	dynamicSvc    service.DynamicQuestionService
	submissionSvc service.ResponseSubmissionService
}

func NewController(
	surveySvc service.SurveyService,
	dynamicSvc service.DynamicQuestionService,
	submissionSvc service.ResponseSubmissionService,
) *Controller {
	return &Controller{
		surveySvc:     surveySvc,
		dynamicSvc:    dynamicSvc,
		submissionSvc: submissionSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		surveys := apiV1.Group("/surveys")
		surveys.POST("", ctrl.CreateSurveyHandler)
		surveys.GET("", ctrl.ListSurveysHandler)
		surveys.GET("/:id", ctrl.GetSurveyHandler)
		surveys.DELETE("/:id", ctrl.DeleteSurveyHandler)

		surveys.POST("/:id/questions/dynamic", ctrl.GenerateDynamicQuestionHandler)
		surveys.POST("/:id/questions/dynamic/batch", ctrl.GenerateDynamicQuestionsHandler)
		surveys.POST("/:id/questions/dynamic/regenerate", ctrl.RegenerateDynamicQuestionsHandler)

		surveys.POST("/:id/responses", ctrl.SubmitResponseHandler)
		surveys.GET("/:id/responses", ctrl.ListResponsesHandler)
	}
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsBusinessRule(err):
		return http.StatusUnprocessableEntity
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsServiceUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func surveyIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid survey ID format"})
		return 0, false
	}
	return uint(id), true
}

// CreateSurveyHandler godoc
// @Summary Create a new survey
// @Description Create a survey from manual and/or AI-generated questions
// @Tags surveys
// @Accept json
// @Produce json
// @Param survey body dto.SurveyCreateDTO true "Survey data"
// @Success 201 {object} dto.SurveyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 422 {object} dto.ErrorResponse "Business rule violation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /surveys [post]
func (ctrl *Controller) CreateSurveyHandler(c *gin.Context) {
	var req dto.SurveyCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SurveyCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.surveySvc.CreateSurvey(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create survey")
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSurveyHandler godoc
// @Summary Get a survey by ID with its questions
// @Tags surveys
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} dto.SurveyResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /surveys/{id} [get]
func (ctrl *Controller) GetSurveyHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	resp, err := ctrl.surveySvc.GetSurvey(id)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSurveysHandler godoc
// @Summary List surveys with pagination
// @Tags surveys
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} dto.SurveyListResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /surveys [get]
func (ctrl *Controller) ListSurveysHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := ctrl.surveySvc.ListSurveys(page, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list surveys")
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSurveyHandler godoc
// @Summary Delete a survey
// @Tags surveys
// @Param id path int true "Survey ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /surveys/{id} [delete]
func (ctrl *Controller) DeleteSurveyHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.surveySvc.DeleteSurvey(id); err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateDynamicQuestionHandler godoc
// @Summary Generate one dynamic question for a survey
// @Description Generates a single follow-up question based on prior answers
// @Tags dynamic-questions
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body dto.GenerateOneDTO true "Prior answers and current position"
// @Success 200 {object} dto.GenerateOneResult
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /surveys/{id}/questions/dynamic [post]
func (ctrl *Controller) GenerateDynamicQuestionHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	var req dto.GenerateOneDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateOneDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := ctrl.dynamicSvc.GenerateOne(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GenerateDynamicQuestionsHandler godoc
// @Summary Generate a batch of dynamic questions for a survey
// @Description Generates up to question_count follow-up questions, clamped to the survey's remaining capacity
// @Tags dynamic-questions
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body dto.GenerateBatchDTO true "Prior answers, position and count"
// @Success 200 {object} dto.GenerateBatchResult
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /surveys/{id}/questions/dynamic/batch [post]
func (ctrl *Controller) GenerateDynamicQuestionsHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	var req dto.GenerateBatchDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateBatchDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := ctrl.dynamicSvc.GenerateMultiple(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegenerateDynamicQuestionsHandler godoc
// @Summary Regenerate the dynamic questions of a survey
// @Description Clears the dynamic question list and regrows it from updated answers
// @Tags dynamic-questions
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param request body dto.RegenerateDTO true "Updated answers, position and optional desired count"
// @Success 200 {object} dto.RegenerateResult
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /surveys/{id}/questions/dynamic/regenerate [post]
func (ctrl *Controller) RegenerateDynamicQuestionsHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	var req dto.RegenerateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind RegenerateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := ctrl.dynamicSvc.Regenerate(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitResponseHandler godoc
// @Summary Submit a respondent's answers for a survey
// @Description Validates answers against the survey's combined question set and finalizes the response
// @Tags responses
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param submission body dto.SubmitResponseDTO true "Respondent answers"
// @Success 200 {object} dto.SubmissionResult
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /surveys/{id}/responses [post]
func (ctrl *Controller) SubmitResponseHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	var req dto.SubmitResponseDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitResponseDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result := ctrl.submissionSvc.SubmitResponse(c.Request.Context(), id, req)
	c.JSON(http.StatusOK, result)
}

// ListResponsesHandler godoc
// @Summary List responses submitted for a survey
// @Tags responses
// @Produce json
// @Param id path int true "Survey ID"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {array} dto.ResponseSummary
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /surveys/{id}/responses [get]
func (ctrl *Controller) ListResponsesHandler(c *gin.Context) {
	id, ok := surveyIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	summaries, total, err := ctrl.submissionSvc.ListResponses(id, page, limit)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": summaries, "total": total, "page": page, "limit": limit})
}
