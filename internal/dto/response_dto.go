package dto

import "time"

type QuestionResponse struct {
	ID            uint      `json:"id"`
	SurveyID      uint      `json:"survey_id"`
	Text          string    `json:"text"`
	Type          string    `json:"type"`
	Options       []string  `json:"options,omitempty"`
	IsRequired    bool      `json:"is_required"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	IsDynamic     bool      `json:"is_dynamic"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type SurveyResponse struct {
	ID             uint               `json:"id"`
	UserID         *uint              `json:"user_id,omitempty"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	Goal           string             `json:"goal,omitempty"`
	MaxQuestions   int                `json:"max_questions"`
	TargetLanguage string             `json:"target_language,omitempty"`
	AutoTranslate  bool               `json:"auto_translate"`
	IsActive       bool               `json:"is_active"`
	Questions      []QuestionResponse `json:"questions,omitempty"`
	StaticCount    int                `json:"static_count"`
	DynamicCount   int                `json:"dynamic_count"`
	CanPublish     bool               `json:"can_publish"`
	CanGenerate    bool               `json:"can_generate_dynamic_questions"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// GenerateOneResult is the outcome of a single dynamic-question generation.
// Failures after input validation land here rather than as errors.
type GenerateOneResult struct {
	Success         bool              `json:"success"`
	Question        *QuestionResponse `json:"question,omitempty"`
	TotalQuestions  int               `json:"total_questions"`
	CanGenerateMore bool              `json:"can_generate_more"`
	Error           string            `json:"error,omitempty"`
}

// GenerateBatchResult reports the original ask separately from what was
// actually appended.
type GenerateBatchResult struct {
	Success         bool               `json:"success"`
	Questions       []QuestionResponse `json:"questions,omitempty"`
	RequestedCount  int                `json:"requested_count"`
	GeneratedCount  int                `json:"generated_count"`
	TotalQuestions  int                `json:"total_questions"`
	CanGenerateMore bool               `json:"can_generate_more"`
	Error           string             `json:"error,omitempty"`
}

type RegenerateResult struct {
	Success              bool               `json:"success"`
	PreviousDynamicCount int                `json:"previous_dynamic_count"`
	NewDynamicCount      int                `json:"new_dynamic_count"`
	Questions            []QuestionResponse `json:"questions,omitempty"`
	Error                string             `json:"error,omitempty"`
}

type SubmissionResult struct {
	Success     bool   `json:"success"`
	ResponseUID string `json:"response_id,omitempty"`
	Message     string `json:"message"`
}

type ResponseSummary struct {
	ResponseUID     string     `json:"response_id"`
	SurveyID        uint       `json:"survey_id"`
	RespondentID    *string    `json:"respondent_id,omitempty"`
	RespondentEmail *string    `json:"respondent_email,omitempty"`
	AnswerCount     int        `json:"answer_count"`
	StartedAt       time.Time  `json:"started_at"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
