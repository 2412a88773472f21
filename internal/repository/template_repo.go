package repository

import (
	"context"
	"errors"

	"github.com/tourops/daily-list-service/internal/models"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	Create(ctx context.Context, tmpl *models.EmailTemplate) error
	Update(ctx context.Context, tmpl *models.EmailTemplate) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.EmailTemplate, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.EmailTemplate, error)
	FindByType(ctx context.Context, templateType models.TemplateType) ([]models.EmailTemplate, error)
	FindDefaultByType(ctx context.Context, templateType models.TemplateType) (*models.EmailTemplate, error)
	ClearDefault(ctx context.Context, tx *gorm.DB, templateType models.TemplateType) error
	FindAllConsolidated(ctx context.Context) ([]models.EmailTemplate, error)

	ActivityTemplates(ctx context.Context) ([]models.ActivityGuideTemplate, error)
	UpsertActivityTemplate(ctx context.Context, activityID, templateID int64) error
	GetDB() *gorm.DB
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *templateRepository) Create(ctx context.Context, tmpl *models.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *templateRepository) Update(ctx context.Context, tmpl *models.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(tmpl).Error
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.EmailTemplate{}, id).Error
}

func (r *templateRepository) FindByID(ctx context.Context, id int64) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	if err := r.db.WithContext(ctx).First(&tmpl, id).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *templateRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.EmailTemplate, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var templates []models.EmailTemplate
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) FindByType(ctx context.Context, templateType models.TemplateType) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_type = ?", templateType).
		Order("id ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindDefaultByType returns the default template of the type, falling
// back to the first template of that type when none is marked default.
// Returns gorm.ErrRecordNotFound when the type has no templates at all.
func (r *templateRepository) FindDefaultByType(ctx context.Context, templateType models.TemplateType) (*models.EmailTemplate, error) {
	var tmpl models.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_type = ? AND is_default", templateType).
		First(&tmpl).Error
	if err == nil {
		return &tmpl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Where("template_type = ?", templateType).
		Order("id ASC").
		First(&tmpl).Error
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (r *templateRepository) ClearDefault(ctx context.Context, tx *gorm.DB, templateType models.TemplateType) error {
	return tx.WithContext(ctx).
		Model(&models.EmailTemplate{}).
		Where("template_type = ? AND is_default", templateType).
		Update("is_default", false).Error
}

func (r *templateRepository) FindAllConsolidated(ctx context.Context) ([]models.EmailTemplate, error) {
	var templates []models.EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_type <> ''").
		Order("template_type ASC, id ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *templateRepository) ActivityTemplates(ctx context.Context) ([]models.ActivityGuideTemplate, error) {
	var rows []models.ActivityGuideTemplate
	if err := r.db.WithContext(ctx).Preload("Template").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *templateRepository) UpsertActivityTemplate(ctx context.Context, activityID, templateID int64) error {
	var row models.ActivityGuideTemplate
	err := r.db.WithContext(ctx).Where("activity_id = ?", activityID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&models.ActivityGuideTemplate{
			ActivityID: activityID,
			TemplateID: templateID,
		}).Error
	}
	if err != nil {
		return err
	}
	row.TemplateID = templateID
	return r.db.WithContext(ctx).Save(&row).Error
}
