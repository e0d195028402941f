package repository

import (
	"errors"

	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/model"
	"gorm.io/gorm"
)

type SurveyRepository interface {
	Create(survey *model.Survey) error
	Save(survey *model.Survey) error
	FindByID(id uint) (*model.Survey, error)
	FindByIDWithQuestions(id uint) (*model.Survey, error)
	FindByUserID(userID uint) ([]model.Survey, error)
	FindWithPagination(page, limit int) ([]model.Survey, int64, error)
	Delete(id uint) error
	Exists(id uint) (bool, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) Create(survey *model.Survey) error {
	// GORM creates associated questions when survey.Questions is populated.
	return r.db.Create(survey).Error
}

// Save persists the aggregate with an optimistic version check so two stale
// readers cannot both append past MaxQuestions.
func (r *surveyRepository) Save(survey *model.Survey) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Survey{}).
			Where("id = ? AND version = ?", survey.ID, survey.Version).
			Updates(map[string]any{
				"title":           survey.Title,
				"description":     survey.Description,
				"goal":            survey.Goal,
				"max_questions":   survey.MaxQuestions,
				"target_language": survey.TargetLanguage,
				"auto_translate":  survey.AutoTranslate,
				"is_active":       survey.IsActive,
				"version":         survey.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.BusinessRule("survey %d was modified concurrently, retry the operation", survey.ID)
		}
		survey.Version++

		keep := make([]uint, 0, len(survey.Questions))
		for i := range survey.Questions {
			if survey.Questions[i].ID != 0 {
				keep = append(keep, survey.Questions[i].ID)
			}
		}
		del := tx.Where("survey_id = ?", survey.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&model.Question{}).Error; err != nil {
			return err
		}
		for i := range survey.Questions {
			survey.Questions[i].SurveyID = survey.ID
			if err := tx.Save(&survey.Questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *surveyRepository) FindByID(id uint) (*model.Survey, error) {
	var survey model.Survey
	if err := r.db.First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("survey %d not found", id)
		}
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindByIDWithQuestions(id uint) (*model.Survey, error) {
	var survey model.Survey
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.question_order ASC")
	}).First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("survey %d not found", id)
		}
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepository) FindByUserID(userID uint) ([]model.Survey, error) {
	var surveys []model.Survey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&surveys).Error
	return surveys, err
}

func (r *surveyRepository) FindWithPagination(page, limit int) ([]model.Survey, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var total int64
	if err := r.db.Model(&model.Survey{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var surveys []model.Survey
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&surveys).Error
	return surveys, total, err
}

func (r *surveyRepository) Delete(id uint) error {
	res := r.db.Delete(&model.Survey{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("survey %d not found", id)
	}
	return nil
}

func (r *surveyRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Survey{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
