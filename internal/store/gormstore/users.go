package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	var users []models.User
	if len(emails) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, email string, update models.UserUpdate) error {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Image != nil {
		updates["image"] = *update.Image
	}
	if update.DateOfBirth != nil {
		updates["date_of_birth"] = *update.DateOfBirth
	}
	if update.Position != nil {
		updates["position"] = *update.Position
	}
	if update.CompanyName != nil {
		updates["company_name"] = *update.CompanyName
	}
	if update.CompanyLogo != nil {
		updates["company_logo"] = *update.CompanyLogo
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *userRepo) AddPackageLimit(ctx context.Context, email string, delta int, subscription string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(map[string]interface{}{
		"package_limit": gorm.Expr("package_limit + ?", delta),
		"subscription":  subscription,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
