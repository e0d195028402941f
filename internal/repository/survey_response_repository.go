package repository

import (
	"errors"

	"github.com/ryoshumei/intelliquest/internal/apperr"
	"github.com/ryoshumei/intelliquest/internal/model"
	"gorm.io/gorm"
)

type SurveyResponseRepository interface {
	Create(response *model.SurveyResponse) error
	Save(response *model.SurveyResponse) error
	FindByID(id uint) (*model.SurveyResponse, error)
	FindByUID(uid string) (*model.SurveyResponse, error)
	FindBySurveyID(surveyID uint, page, limit int) ([]model.SurveyResponse, int64, error)
	Delete(id uint) error
}

type surveyResponseRepository struct {
	db *gorm.DB
}

func NewSurveyResponseRepository(db *gorm.DB) SurveyResponseRepository {
	return &surveyResponseRepository{db: db}
}

func (r *surveyResponseRepository) Create(response *model.SurveyResponse) error {
	return r.db.Create(response).Error
}

func (r *surveyResponseRepository) Save(response *model.SurveyResponse) error {
	return r.db.Save(response).Error
}

func (r *surveyResponseRepository) FindByID(id uint) (*model.SurveyResponse, error) {
	var response model.SurveyResponse
	if err := r.db.Preload("Answers").First(&response, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("response %d not found", id)
		}
		return nil, err
	}
	return &response, nil
}

func (r *surveyResponseRepository) FindByUID(uid string) (*model.SurveyResponse, error) {
	var response model.SurveyResponse
	if err := r.db.Preload("Answers").Where("response_uid = ?", uid).First(&response).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("response %s not found", uid)
		}
		return nil, err
	}
	return &response, nil
}

func (r *surveyResponseRepository) FindBySurveyID(surveyID uint, page, limit int) ([]model.SurveyResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var total int64
	if err := r.db.Model(&model.SurveyResponse{}).Where("survey_id = ?", surveyID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var responses []model.SurveyResponse
	err := r.db.Preload("Answers").
		Where("survey_id = ?", surveyID).
		Order("started_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&responses).Error
	return responses, total, err
}

func (r *surveyResponseRepository) Delete(id uint) error {
	res := r.db.Delete(&model.SurveyResponse{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("response %d not found", id)
	}
	return nil
}
