package service

import (
	"context"
	"errors"

	"github.com/tourops/daily-list-service/internal/models"
	"github.com/tourops/daily-list-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTemplateNotFound    = errors.New("email template not found")
	ErrInvalidTemplateType = errors.New("unknown template type")
)

var validTemplateTypes = map[models.TemplateType]bool{
	models.TemplateGuideConsolidated:     true,
	models.TemplateEscortConsolidated:    true,
	models.TemplateHeadphoneConsolidated: true,
	models.TemplatePrintingConsolidated:  true,
	models.TemplateGuideServiceGroup:     true,
}

type TemplateService interface {
	ListConsolidated(ctx context.Context) ([]models.EmailTemplate, error)
	Create(ctx context.Context, tmpl *models.EmailTemplate) error
	Update(ctx context.Context, tmpl *models.EmailTemplate) error
	Delete(ctx context.Context, id int64) error
	ActivityTemplates(ctx context.Context) (map[int64]models.EmailTemplate, error)
	AssignActivityTemplate(ctx context.Context, activityID, templateID int64) error
}

type templateService struct {
	repo repository.TemplateRepository
}

func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) ListConsolidated(ctx context.Context) ([]models.EmailTemplate, error) {
	return s.repo.FindAllConsolidated(ctx)
}

// Create stores a template; marking it default clears any previous
// default of the same type in the same transaction.
func (s *templateService) Create(ctx context.Context, tmpl *models.EmailTemplate) error {
	if tmpl.TemplateType != "" && !validTemplateTypes[tmpl.TemplateType] {
		return ErrInvalidTemplateType
	}
	return s.repo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tmpl.IsDefault && tmpl.TemplateType != "" {
			if err := s.repo.ClearDefault(ctx, tx, tmpl.TemplateType); err != nil {
				return err
			}
		}
		return tx.Create(tmpl).Error
	})
}

func (s *templateService) Update(ctx context.Context, tmpl *models.EmailTemplate) error {
	if tmpl.TemplateType != "" && !validTemplateTypes[tmpl.TemplateType] {
		return ErrInvalidTemplateType
	}
	if _, err := s.repo.FindByID(ctx, tmpl.ID); err != nil {
		return ErrTemplateNotFound
	}
	return s.repo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tmpl.IsDefault && tmpl.TemplateType != "" {
			if err := s.repo.ClearDefault(ctx, tx, tmpl.TemplateType); err != nil {
				return err
			}
		}
		return tx.Save(tmpl).Error
	})
}

func (s *templateService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrTemplateNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *templateService) ActivityTemplates(ctx context.Context) (map[int64]models.EmailTemplate, error) {
	rows, err := s.repo.ActivityTemplates(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]models.EmailTemplate, len(rows))
	for _, row := range rows {
		if row.Template != nil {
			out[row.ActivityID] = *row.Template
		}
	}
	return out, nil
}

func (s *templateService) AssignActivityTemplate(ctx context.Context, activityID, templateID int64) error {
	if _, err := s.repo.FindByID(ctx, templateID); err != nil {
		return ErrTemplateNotFound
	}
	return s.repo.UpsertActivityTemplate(ctx, activityID, templateID)
}
