package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type packageRepo struct {
	db *gorm.DB
}

func (r *packageRepo) List(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&packages).Error; err != nil {
		return nil, translate(err)
	}
	return packages, nil
}

func (r *packageRepo) FindByName(ctx context.Context, name string) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&pkg).Error; err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}

func (r *packageRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Package{}).Count(&count).Error
	return count, translate(err)
}

func (r *packageRepo) Replace(ctx context.Context, packages []models.Package) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Package{}).Error; err != nil {
			return translate(err)
		}
		if len(packages) == 0 {
			return nil
		}
		return translate(tx.Create(&packages).Error)
	})
}

type paymentRepo struct {
	db *gorm.DB
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return translate(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepo) ListByHR(ctx context.Context, hrEmail string, page store.Page) ([]models.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("hr_email = ?", hrEmail)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var payments []models.Payment
	if err := paginate(query.Order("payment_date DESC"), page).Find(&payments).Error; err != nil {
		return nil, 0, translate(err)
	}
	return payments, total, nil
}
