// Package gormstore implements the persistence gateway on GORM, backed by
// PostgreSQL in production and SQLite for local runs and tests.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/gearguard-backend/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open connection. The dialector should be opened with
// TranslateError enabled so unique violations surface as store.ErrDuplicate.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() store.UserRepository               { return &userRepo{db: s.db} }
func (s *Store) Assets() store.AssetRepository             { return &assetRepo{db: s.db} }
func (s *Store) Requests() store.RequestRepository         { return &requestRepo{db: s.db} }
func (s *Store) Assignments() store.AssignmentRepository   { return &assignmentRepo{db: s.db} }
func (s *Store) Affiliations() store.AffiliationRepository { return &affiliationRepo{db: s.db} }
func (s *Store) Packages() store.PackageRepository         { return &packageRepo{db: s.db} }
func (s *Store) Payments() store.PaymentRepository         { return &paymentRepo{db: s.db} }

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	default:
		return err
	}
}

func paginate(db *gorm.DB, page store.Page) *gorm.DB {
	if page.Limit <= 0 {
		return db
	}
	return db.Offset(page.Offset()).Limit(page.Limit)
}

// likePattern builds a case-insensitive LIKE pattern that works on both
// PostgreSQL and SQLite when compared against LOWER(column).
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
