package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type assignmentRepo struct {
	db *gorm.DB
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *models.AssignedAsset) error {
	return translate(r.db.WithContext(ctx).Create(assignment).Error)
}

func (r *assignmentRepo) FindByID(ctx context.Context, id string) (*models.AssignedAsset, error) {
	var assignment models.AssignedAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByEmployee(ctx context.Context, employeeEmail string, filter store.AssetFilter, page store.Page) ([]models.AssignedAsset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AssignedAsset{}).Where("employee_email = ?", employeeEmail)
	if filter.HREmail != "" {
		query = query.Where("hr_email = ?", filter.HREmail)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(asset_name) LIKE ?", likePattern(filter.Search))
	}
	if filter.ProductType != "" {
		query = query.Where("asset_type = ?", filter.ProductType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var assignments []models.AssignedAsset
	if err := paginate(query.Order("assignment_date DESC"), page).Find(&assignments).Error; err != nil {
		return nil, 0, translate(err)
	}
	return assignments, total, nil
}

func (r *assignmentRepo) ListAssigned(ctx context.Context, employeeEmail, hrEmail string) ([]models.AssignedAsset, error) {
	var assignments []models.AssignedAsset
	err := r.db.WithContext(ctx).
		Where("employee_email = ? AND hr_email = ? AND status = ?", employeeEmail, hrEmail, models.AssignmentStatusAssigned).
		Find(&assignments).Error
	if err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (r *assignmentRepo) MarkReturned(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.AssignedAsset{}).
		Where("id = ? AND status = ?", id, models.AssignmentStatusAssigned).
		Updates(map[string]interface{}{
			"status":      models.AssignmentStatusReturned,
			"return_date": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *assignmentRepo) MarkAllReturned(ctx context.Context, employeeEmail, hrEmail string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.AssignedAsset{}).
		Where("employee_email = ? AND hr_email = ? AND status = ?", employeeEmail, hrEmail, models.AssignmentStatusAssigned).
		Updates(map[string]interface{}{
			"status":      models.AssignmentStatusReturned,
			"return_date": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *assignmentRepo) CountByEmployee(ctx context.Context, employeeEmail, hrEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AssignedAsset{}).
		Where("employee_email = ? AND hr_email = ?", employeeEmail, hrEmail).
		Count(&count).Error
	return count, translate(err)
}
