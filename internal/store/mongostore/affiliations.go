package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/gearguard-backend/internal/models"
)

type affiliationRepo struct {
	c *mongo.Collection
}

func (r *affiliationRepo) Create(ctx context.Context, affiliation *models.Affiliation) error {
	affiliation.EnsureID()
	_, err := r.c.InsertOne(ctx, affiliation)
	return translate(err)
}

func (r *affiliationRepo) FindByID(ctx context.Context, id string) (*models.Affiliation, error) {
	var affiliation models.Affiliation
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&affiliation); err != nil {
		return nil, translate(err)
	}
	return &affiliation, nil
}

func (r *affiliationRepo) FindActive(ctx context.Context, employeeEmail, hrEmail string) (*models.Affiliation, error) {
	var affiliation models.Affiliation
	err := r.c.FindOne(ctx, bson.M{
		"employeeEmail": employeeEmail,
		"hrEmail":       hrEmail,
		"status":        models.AffiliationStatusActive,
	}).Decode(&affiliation)
	if err != nil {
		return nil, translate(err)
	}
	return &affiliation, nil
}

func (r *affiliationRepo) ListActiveByHR(ctx context.Context, hrEmail string) ([]models.Affiliation, error) {
	return r.listActive(ctx, bson.M{"hrEmail": hrEmail})
}

func (r *affiliationRepo) ListActiveByEmployee(ctx context.Context, employeeEmail string) ([]models.Affiliation, error) {
	return r.listActive(ctx, bson.M{"employeeEmail": employeeEmail})
}

func (r *affiliationRepo) ListActiveByHRs(ctx context.Context, hrEmails []string) ([]models.Affiliation, error) {
	if len(hrEmails) == 0 {
		return []models.Affiliation{}, nil
	}
	return r.listActive(ctx, bson.M{"hrEmail": bson.M{"$in": hrEmails}})
}

func (r *affiliationRepo) listActive(ctx context.Context, filter bson.M) ([]models.Affiliation, error) {
	filter["status"] = models.AffiliationStatusActive
	opts := options.Find().SetSort(bson.D{{Key: "affiliationDate", Value: -1}})
	affiliations, err := findAll[models.Affiliation](ctx, r.c, filter, opts)
	return affiliations, translate(err)
}

func (r *affiliationRepo) CountActiveByHR(ctx context.Context, hrEmail string) (int64, error) {
	count, err := r.c.CountDocuments(ctx, bson.M{"hrEmail": hrEmail, "status": models.AffiliationStatusActive})
	return count, translate(err)
}

func (r *affiliationRepo) MarkRemoved(ctx context.Context, id string, at time.Time) (int64, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AffiliationStatusActive},
		bson.M{"$set": bson.M{"status": models.AffiliationStatusRemoved, "removedDate": at, "updatedAt": at}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}
