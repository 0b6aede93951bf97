package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

type packageRepo struct {
	c *mongo.Collection
}

func (r *packageRepo) List(ctx context.Context) ([]models.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	packages, err := findAll[models.Package](ctx, r.c, bson.M{}, opts)
	return packages, translate(err)
}

func (r *packageRepo) FindByName(ctx context.Context, name string) (*models.Package, error) {
	var pkg models.Package
	filter := bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
	if err := r.c.FindOne(ctx, filter).Decode(&pkg); err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}

func (r *packageRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.c.CountDocuments(ctx, bson.M{})
	return count, translate(err)
}

func (r *packageRepo) Replace(ctx context.Context, packages []models.Package) error {
	if _, err := r.c.DeleteMany(ctx, bson.M{}); err != nil {
		return translate(err)
	}
	if len(packages) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(packages))
	for i := range packages {
		packages[i].EnsureID()
		docs = append(docs, packages[i])
	}
	_, err := r.c.InsertMany(ctx, docs)
	return translate(err)
}

type paymentRepo struct {
	c *mongo.Collection
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.EnsureID()
	_, err := r.c.InsertOne(ctx, payment)
	return translate(err)
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.c.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment); err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepo) ListByHR(ctx context.Context, hrEmail string, page store.Page) ([]models.Payment, int64, error) {
	payments, total, err := findPage[models.Payment](ctx, r.c, bson.M{"hrEmail": hrEmail}, "paymentDate", page)
	return payments, total, translate(err)
}
