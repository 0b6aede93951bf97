package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type assetRepo struct {
	db *gorm.DB
}

func (r *assetRepo) Create(ctx context.Context, asset *models.Asset) error {
	return translate(r.db.WithContext(ctx).Create(asset).Error)
}

func (r *assetRepo) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		return nil, translate(err)
	}
	return &asset, nil
}

func (r *assetRepo) List(ctx context.Context, filter store.AssetFilter, page store.Page) ([]models.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Asset{})
	if filter.HREmail != "" {
		query = query.Where("hr_email = ?", filter.HREmail)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(product_name) LIKE ?", likePattern(filter.Search))
	}
	if filter.ProductType != "" {
		query = query.Where("product_type = ?", filter.ProductType)
	}
	if filter.AvailableOnly {
		query = query.Where("available_quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var assets []models.Asset
	if err := paginate(query.Order("date_added DESC"), page).Find(&assets).Error; err != nil {
		return nil, 0, translate(err)
	}
	return assets, total, nil
}

func (r *assetRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Asset{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *assetRepo) AdjustAvailability(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.Asset{}).Where("id = ?", id).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity + ?", delta))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *assetRepo) CountByType(ctx context.Context, hrEmail string) ([]models.AssetTypeCount, error) {
	var counts []models.AssetTypeCount
	err := r.db.WithContext(ctx).Model(&models.Asset{}).
		Select("product_type, COUNT(*) AS count").
		Where("hr_email = ?", hrEmail).
		Group("product_type").
		Order("product_type").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err)
	}
	return counts, nil
}
