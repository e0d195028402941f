package dto

// QuestionCreateDTO is a manually authored question inside a survey creation request.
type QuestionCreateDTO struct {
	Text       string   `json:"text" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=text textarea single_choice multiple_choice scale yes_no email number date ranking"`
	Options    []string `json:"options"`
	IsRequired bool     `json:"is_required"`
}

// AIGenerationDTO asks the generator for authoring-time questions.
type AIGenerationDTO struct {
	Goal          string `json:"goal"`
	QuestionCount int    `json:"question_count" binding:"required,min=1,max=50"`
}

// SurveyCreateDTO creates a survey from manual and/or AI-authored questions.
type SurveyCreateDTO struct {
	Title          string              `json:"title" binding:"required"`
	Description    string              `json:"description,omitempty"`
	Goal           string              `json:"goal,omitempty"`
	MaxQuestions   *int                `json:"max_questions,omitempty"`
	TargetLanguage string              `json:"target_language,omitempty"`
	AutoTranslate  *bool               `json:"auto_translate,omitempty"`
	UserID         *uint               `json:"user_id,omitempty"`
	Questions      []QuestionCreateDTO `json:"questions,omitempty" binding:"omitempty,dive"`
	AIGeneration   *AIGenerationDTO    `json:"ai_generation,omitempty"`
}

// AnswerContextDTO carries one prior answer as context for dynamic generation.
type AnswerContextDTO struct {
	QuestionID   uint   `json:"question_id"`
	QuestionText string `json:"question_text,omitempty"`
	Answer       any    `json:"answer"`
}

// GenerateOneDTO requests a single dynamic question.
type GenerateOneDTO struct {
	PreviousAnswers      []AnswerContextDTO `json:"previous_answers"`
	CurrentQuestionIndex int                `json:"current_question_index"`
}

// GenerateBatchDTO requests up to QuestionCount dynamic questions.
type GenerateBatchDTO struct {
	PreviousAnswers      []AnswerContextDTO `json:"previous_answers"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	QuestionCount        int                `json:"question_count"`
}

// RegenerateDTO clears dynamic questions and regrows them from updated answers.
type RegenerateDTO struct {
	UpdatedAnswers       []AnswerContextDTO `json:"updated_answers"`
	CurrentQuestionIndex int                `json:"current_question_index"`
	DesiredCount         *int               `json:"desired_count,omitempty"`
}

// SubmitAnswerDTO is one respondent answer in a submission payload.
// Answer may be a string, a list of strings, or a number.
type SubmitAnswerDTO struct {
	QuestionID   uint   `json:"question_id" binding:"required"`
	QuestionText string `json:"question_text,omitempty"`
	QuestionType string `json:"question_type,omitempty"`
	Answer       any    `json:"answer"`
}

// SubmitResponseDTO finalizes a respondent's answer set for a survey.
type SubmitResponseDTO struct {
	Answers         []SubmitAnswerDTO `json:"responses" binding:"required"`
	RespondentID    *string           `json:"respondent_id,omitempty"`
	RespondentEmail *string           `json:"respondent_email,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}
