// Package mongostore implements the persistence gateway on MongoDB, one
// collection per record set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/javajoker/gearguard-backend/internal/store"
)

// Collection names.
const (
	UsersCollection        = "users"
	AssetsCollection       = "assets"
	RequestsCollection     = "requests"
	AssignmentsCollection  = "assignedAssets"
	AffiliationsCollection = "affiliation"
	PackagesCollection     = "packages"
	PaymentsCollection     = "payments"
)

type Options struct {
	URI      string
	Database string
	// Transactions requires a replica set or sharded cluster. When false,
	// WithinTransaction runs its steps in sequence without atomicity.
	Transactions   bool
	ConnectTimeout time.Duration
}

type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

var _ store.Store = (*Store)(nil)

// Connect dials the server, verifies it with a ping and ensures indexes.
func Connect(ctx context.Context, opts Options) (*Store, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := New(client, opts.Database, opts.Transactions)
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if !opts.Transactions {
		logrus.Warn("Mongo transactions disabled; multi-step workflows are not atomic")
	}
	return s, nil
}

func New(client *mongo.Client, database string, transactions bool) *Store {
	return &Store{
		client:       client,
		db:           client.Database(database),
		transactions: transactions,
	}
}

func (s *Store) Database() *mongo.Database { return s.db }

func (s *Store) Users() store.UserRepository {
	return &userRepo{c: s.db.Collection(UsersCollection)}
}

func (s *Store) Assets() store.AssetRepository {
	return &assetRepo{c: s.db.Collection(AssetsCollection)}
}

func (s *Store) Requests() store.RequestRepository {
	return &requestRepo{c: s.db.Collection(RequestsCollection)}
}

func (s *Store) Assignments() store.AssignmentRepository {
	return &assignmentRepo{c: s.db.Collection(AssignmentsCollection)}
}

func (s *Store) Affiliations() store.AffiliationRepository {
	return &affiliationRepo{c: s.db.Collection(AffiliationsCollection)}
}

func (s *Store) Packages() store.PackageRepository {
	return &packageRepo{c: s.db.Collection(PackagesCollection)}
}

func (s *Store) Payments() store.PaymentRepository {
	return &paymentRepo{c: s.db.Collection(PaymentsCollection)}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes that back the uniqueness rules.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		AssetsCollection: {
			{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "dateAdded", Value: -1}}},
		},
		RequestsCollection: {
			{Keys: bson.D{{Key: "requesterEmail", Value: 1}, {Key: "assetId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "requestDate", Value: -1}}},
		},
		AssignmentsCollection: {
			{Keys: bson.D{{Key: "employeeEmail", Value: 1}, {Key: "hrEmail", Value: 1}, {Key: "status", Value: 1}}},
		},
		AffiliationsCollection: {
			{
				Keys: bson.D{{Key: "employeeEmail", Value: 1}, {Key: "hrEmail", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "active"}).
					SetName("uniq_active_affiliation"),
			},
			{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "status", Value: 1}}},
		},
		PackagesCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "paymentDate", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return store.ErrDuplicate
	default:
		return err
	}
}

func findOptions(sortField string, page store.Page) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	if page.Limit > 0 {
		opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.Limit))
	}
	return opts
}

func containsFold(search string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
}

// findPage counts and fetches one page of documents matching filter.
func findPage[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sortField string, page store.Page) ([]T, int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := c.Find(ctx, filter, findOptions(sortField, page))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
