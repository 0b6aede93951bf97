package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

func now() time.Time {
	return time.Now().UTC()
}

type assetRepo struct {
	c *mongo.Collection
}

func (r *assetRepo) Create(ctx context.Context, asset *models.Asset) error {
	asset.EnsureID()
	_, err := r.c.InsertOne(ctx, asset)
	return translate(err)
}

func (r *assetRepo) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&asset); err != nil {
		return nil, translate(err)
	}
	return &asset, nil
}

func (r *assetRepo) List(ctx context.Context, filter store.AssetFilter, page store.Page) ([]models.Asset, int64, error) {
	query := bson.M{}
	if filter.HREmail != "" {
		query["hrEmail"] = filter.HREmail
	}
	if filter.Search != "" {
		query["productName"] = containsFold(filter.Search)
	}
	if filter.ProductType != "" {
		query["productType"] = filter.ProductType
	}
	if filter.AvailableOnly {
		query["availableQuantity"] = bson.M{"$gt": 0}
	}

	assets, total, err := findPage[models.Asset](ctx, r.c, query, "dateAdded", page)
	return assets, total, translate(err)
}

func (r *assetRepo) Delete(ctx context.Context, id string) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *assetRepo) AdjustAvailability(ctx context.Context, id string, delta int) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"availableQuantity": delta},
		"$set": bson.M{"updatedAt": now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *assetRepo) CountByType(ctx context.Context, hrEmail string) ([]models.AssetTypeCount, error) {
	cur, err := r.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"hrEmail": hrEmail}},
		{"$group": bson.M{"_id": "$productType", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	})
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)

	counts := make([]models.AssetTypeCount, 0)
	if err := cur.All(ctx, &counts); err != nil {
		return nil, translate(err)
	}
	return counts, nil
}
