package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type assignmentRepo struct {
	c *mongo.Collection
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *models.AssignedAsset) error {
	assignment.EnsureID()
	_, err := r.c.InsertOne(ctx, assignment)
	return translate(err)
}

func (r *assignmentRepo) FindByID(ctx context.Context, id string) (*models.AssignedAsset, error) {
	var assignment models.AssignedAsset
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment); err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByEmployee(ctx context.Context, employeeEmail string, filter store.AssetFilter, page store.Page) ([]models.AssignedAsset, int64, error) {
	query := bson.M{"employeeEmail": employeeEmail}
	if filter.HREmail != "" {
		query["hrEmail"] = filter.HREmail
	}
	if filter.Search != "" {
		query["assetName"] = containsFold(filter.Search)
	}
	if filter.ProductType != "" {
		query["assetType"] = filter.ProductType
	}
	assignments, total, err := findPage[models.AssignedAsset](ctx, r.c, query, "assignmentDate", page)
	return assignments, total, translate(err)
}

func (r *assignmentRepo) ListAssigned(ctx context.Context, employeeEmail, hrEmail string) ([]models.AssignedAsset, error) {
	assignments, err := findAll[models.AssignedAsset](ctx, r.c, bson.M{
		"employeeEmail": employeeEmail,
		"hrEmail":       hrEmail,
		"status":        models.AssignmentStatusAssigned,
	})
	return assignments, translate(err)
}

func (r *assignmentRepo) MarkReturned(ctx context.Context, id string, at time.Time) (int64, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AssignmentStatusAssigned},
		bson.M{"$set": bson.M{"status": models.AssignmentStatusReturned, "returnDate": at, "updatedAt": at}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (r *assignmentRepo) MarkAllReturned(ctx context.Context, employeeEmail, hrEmail string, at time.Time) (int64, error) {
	res, err := r.c.UpdateMany(ctx,
		bson.M{"employeeEmail": employeeEmail, "hrEmail": hrEmail, "status": models.AssignmentStatusAssigned},
		bson.M{"$set": bson.M{"status": models.AssignmentStatusReturned, "returnDate": at, "updatedAt": at}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (r *assignmentRepo) CountByEmployee(ctx context.Context, employeeEmail, hrEmail string) (int64, error) {
	count, err := r.c.CountDocuments(ctx, bson.M{"employeeEmail": employeeEmail, "hrEmail": hrEmail})
	return count, translate(err)
}
