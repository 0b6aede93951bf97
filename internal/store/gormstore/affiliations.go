package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
)

type affiliationRepo struct {
	db *gorm.DB
}

func (r *affiliationRepo) Create(ctx context.Context, affiliation *models.Affiliation) error {
	return translate(r.db.WithContext(ctx).Create(affiliation).Error)
}

func (r *affiliationRepo) FindByID(ctx context.Context, id string) (*models.Affiliation, error) {
	var affiliation models.Affiliation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&affiliation).Error; err != nil {
		return nil, translate(err)
	}
	return &affiliation, nil
}

func (r *affiliationRepo) FindActive(ctx context.Context, employeeEmail, hrEmail string) (*models.Affiliation, error) {
	var affiliation models.Affiliation
	err := r.db.WithContext(ctx).
		Where("employee_email = ? AND hr_email = ? AND status = ?", employeeEmail, hrEmail, models.AffiliationStatusActive).
		First(&affiliation).Error
	if err != nil {
		return nil, translate(err)
	}
	return &affiliation, nil
}

func (r *affiliationRepo) ListActiveByHR(ctx context.Context, hrEmail string) ([]models.Affiliation, error) {
	return r.listActive(ctx, "hr_email = ?", hrEmail)
}

func (r *affiliationRepo) ListActiveByEmployee(ctx context.Context, employeeEmail string) ([]models.Affiliation, error) {
	return r.listActive(ctx, "employee_email = ?", employeeEmail)
}

func (r *affiliationRepo) ListActiveByHRs(ctx context.Context, hrEmails []string) ([]models.Affiliation, error) {
	if len(hrEmails) == 0 {
		return []models.Affiliation{}, nil
	}
	return r.listActive(ctx, "hr_email IN ?", hrEmails)
}

func (r *affiliationRepo) listActive(ctx context.Context, cond string, arg interface{}) ([]models.Affiliation, error) {
	var affiliations []models.Affiliation
	err := r.db.WithContext(ctx).
		Where(cond, arg).
		Where("status = ?", models.AffiliationStatusActive).
		Order("affiliation_date DESC").
		Find(&affiliations).Error
	if err != nil {
		return nil, translate(err)
	}
	return affiliations, nil
}

func (r *affiliationRepo) CountActiveByHR(ctx context.Context, hrEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Affiliation{}).
		Where("hr_email = ? AND status = ?", hrEmail, models.AffiliationStatusActive).
		Count(&count).Error
	return count, translate(err)
}

func (r *affiliationRepo) MarkRemoved(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Affiliation{}).
		Where("id = ? AND status = ?", id, models.AffiliationStatusActive).
		Updates(map[string]interface{}{
			"status":       models.AffiliationStatusRemoved,
			"removed_date": at,
			"updated_at":   at,
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}
