package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type requestRepo struct {
	c *mongo.Collection
}

func (r *requestRepo) Create(ctx context.Context, request *models.Request) error {
	request.EnsureID()
	_, err := r.c.InsertOne(ctx, request)
	return translate(err)
}

func (r *requestRepo) FindByID(ctx context.Context, id string) (*models.Request, error) {
	var request models.Request
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&request); err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *requestRepo) FindByRequesterAndAsset(ctx context.Context, requesterEmail, assetID string) (*models.Request, error) {
	var request models.Request
	err := r.c.FindOne(ctx, bson.M{"requesterEmail": requesterEmail, "assetId": assetID}).Decode(&request)
	if err != nil {
		return nil, translate(err)
	}
	return &request, nil
}

func (r *requestRepo) ListByHR(ctx context.Context, hrEmail, search string, page store.Page) ([]models.Request, int64, error) {
	query := bson.M{"hrEmail": hrEmail}
	if search != "" {
		query["$or"] = bson.A{
			bson.M{"requesterName": containsFold(search)},
			bson.M{"requesterEmail": containsFold(search)},
		}
	}
	requests, total, err := findPage[models.Request](ctx, r.c, query, "requestDate", page)
	return requests, total, translate(err)
}

func (r *requestRepo) ListByRequester(ctx context.Context, requesterEmail string, page store.Page) ([]models.Request, int64, error) {
	requests, total, err := findPage[models.Request](ctx, r.c, bson.M{"requesterEmail": requesterEmail}, "requestDate", page)
	return requests, total, translate(err)
}

func (r *requestRepo) Process(ctx context.Context, id string, status models.RequestStatus, processedBy string, at time.Time) (int64, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id, "requestStatus": models.RequestStatusPending},
		bson.M{"$set": bson.M{
			"requestStatus": status,
			"approvalDate":  at,
			"processedBy":   processedBy,
			"updatedAt":     at,
		}},
	)
	if err != nil {
		return 0, translate(err)
	}
	return res.ModifiedCount, nil
}

func (r *requestRepo) TopRequested(ctx context.Context, hrEmail string, limit int) ([]models.RequestCount, error) {
	cur, err := r.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"hrEmail": hrEmail}},
		{"$group": bson.M{
			"_id":       "$assetId",
			"assetName": bson.M{"$max": "$assetName"},
			"count":     bson.M{"$sum": 1},
		}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "assetName", Value: 1}}},
		{"$limit": limit},
	})
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)

	counts := make([]models.RequestCount, 0)
	if err := cur.All(ctx, &counts); err != nil {
		return nil, translate(err)
	}
	return counts, nil
}
