package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type requestRepo struct {
	db *gorm.DB
}

func (r *requestRepo) Create(ctx context.Context, request *models.Request) error {
	return translate(r.db.WithContext(ctx).Create(request).Error)
}

func (r *requestRepo) FindByID(ctx context.Context, id string) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *requestRepo) FindByRequesterAndAsset(ctx context.Context, requesterEmail, assetID string) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).
		Where("requester_email = ? AND asset_id = ?", requesterEmail, assetID).
		First(&request).Error
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *requestRepo) ListByHR(ctx context.Context, hrEmail, search string, page store.Page) ([]models.Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Request{}).Where("hr_email = ?", hrEmail)
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(requester_name) LIKE ? OR LOWER(requester_email) LIKE ?", pattern, pattern)
	}
	return r.list(query, page)
}

func (r *requestRepo) ListByRequester(ctx context.Context, requesterEmail string, page store.Page) ([]models.Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Request{}).Where("requester_email = ?", requesterEmail)
	return r.list(query, page)
}

func (r *requestRepo) list(query *gorm.DB, page store.Page) ([]models.Request, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var requests []models.Request
	if err := paginate(query.Order("request_date DESC"), page).Find(&requests).Error; err != nil {
		return nil, 0, translate(err)
	}
	return requests, total, nil
}

func (r *requestRepo) Process(ctx context.Context, id string, status models.RequestStatus, processedBy string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ? AND request_status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"request_status": status,
			"approval_date":  at,
			"processed_by":   processedBy,
			"updated_at":     at,
		})
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *requestRepo) TopRequested(ctx context.Context, hrEmail string, limit int) ([]models.RequestCount, error) {
	var counts []models.RequestCount
	err := r.db.WithContext(ctx).Model(&models.Request{}).
		Select("asset_id, MAX(asset_name) AS asset_name, COUNT(*) AS count").
		Where("hr_email = ?", hrEmail).
		Group("asset_id").
		Order("count DESC, asset_name ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err)
	}
	return counts, nil
}
