package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type userRepo struct {
	c *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	user.EnsureID()
	_, err := r.c.InsertOne(ctx, user)
	return translate(err)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return []models.User{}, nil
	}
	users, err := findAll[models.User](ctx, r.c, bson.M{"email": bson.M{"$in": emails}})
	return users, translate(err)
}

func (r *userRepo) Update(ctx context.Context, email string, update models.UserUpdate) error {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.DateOfBirth != nil {
		set["dob"] = *update.DateOfBirth
	}
	if update.Position != nil {
		set["position"] = *update.Position
	}
	if update.CompanyName != nil {
		set["companyName"] = *update.CompanyName
	}
	if update.CompanyLogo != nil {
		set["companyLogo"] = *update.CompanyLogo
	}
	if len(set) == 0 {
		return nil
	}
	set["updatedAt"] = now()

	res, err := r.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *userRepo) AddPackageLimit(ctx context.Context, email string, delta int, subscription string) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"email": email}, bson.M{
		"$inc": bson.M{"packageLimit": delta},
		"$set": bson.M{"subscription": subscription, "updatedAt": now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
