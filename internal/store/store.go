// Package store defines the persistence gateway: one repository per record
// set, plus a transactional unit that spans them. Implementations live in
// gormstore (PostgreSQL/SQLite) and mongostore (MongoDB).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/javajoker/gearguard-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
)

// Store is the handle opened at process start and closed at shutdown.
type Store interface {
	Users() UserRepository
	Assets() AssetRepository
	Requests() RequestRepository
	Assignments() AssignmentRepository
	Affiliations() AffiliationRepository
	Packages() PackageRepository
	Payments() PaymentRepository

	// WithinTransaction runs fn so that every write made through tx commits
	// or rolls back together. fn must use the ctx and tx it is given.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Page selects a window of a listing. Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// AssetFilter narrows asset and assignment listings.
type AssetFilter struct {
	HREmail       string
	Search        string
	ProductType   models.ProductType
	AvailableOnly bool
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]models.User, error)
	Update(ctx context.Context, email string, update models.UserUpdate) error
	// AddPackageLimit adds delta seats to the user and records the subscription name.
	AddPackageLimit(ctx context.Context, email string, delta int, subscription string) error
}

type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter AssetFilter, page Page) ([]models.Asset, int64, error)
	Delete(ctx context.Context, id string) error
	// AdjustAvailability applies an atomic increment. It never clamps.
	AdjustAvailability(ctx context.Context, id string, delta int) error
	CountByType(ctx context.Context, hrEmail string) ([]models.AssetTypeCount, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	FindByID(ctx context.Context, id string) (*models.Request, error)
	FindByRequesterAndAsset(ctx context.Context, requesterEmail, assetID string) (*models.Request, error)
	ListByHR(ctx context.Context, hrEmail, search string, page Page) ([]models.Request, int64, error)
	ListByRequester(ctx context.Context, requesterEmail string, page Page) ([]models.Request, int64, error)
	// Process moves a pending request to status and returns how many
	// records changed; zero means the request was no longer pending.
	Process(ctx context.Context, id string, status models.RequestStatus, processedBy string, at time.Time) (int64, error)
	TopRequested(ctx context.Context, hrEmail string, limit int) ([]models.RequestCount, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.AssignedAsset) error
	FindByID(ctx context.Context, id string) (*models.AssignedAsset, error)
	ListByEmployee(ctx context.Context, employeeEmail string, filter AssetFilter, page Page) ([]models.AssignedAsset, int64, error)
	// ListAssigned returns the employee's rows still held from hrEmail.
	ListAssigned(ctx context.Context, employeeEmail, hrEmail string) ([]models.AssignedAsset, error)
	// MarkReturned flips an assigned row to returned; zero means it was already returned.
	MarkReturned(ctx context.Context, id string, at time.Time) (int64, error)
	MarkAllReturned(ctx context.Context, employeeEmail, hrEmail string, at time.Time) (int64, error)
	CountByEmployee(ctx context.Context, employeeEmail, hrEmail string) (int64, error)
}

type AffiliationRepository interface {
	Create(ctx context.Context, affiliation *models.Affiliation) error
	FindByID(ctx context.Context, id string) (*models.Affiliation, error)
	FindActive(ctx context.Context, employeeEmail, hrEmail string) (*models.Affiliation, error)
	ListActiveByHR(ctx context.Context, hrEmail string) ([]models.Affiliation, error)
	ListActiveByEmployee(ctx context.Context, employeeEmail string) ([]models.Affiliation, error)
	ListActiveByHRs(ctx context.Context, hrEmails []string) ([]models.Affiliation, error)
	CountActiveByHR(ctx context.Context, hrEmail string) (int64, error)
	// MarkRemoved flips an active affiliation to removed; zero means it was already removed.
	MarkRemoved(ctx context.Context, id string, at time.Time) (int64, error)
}

type PackageRepository interface {
	List(ctx context.Context) ([]models.Package, error)
	FindByName(ctx context.Context, name string) (*models.Package, error)
	Count(ctx context.Context) (int64, error)
	// Replace swaps the whole catalog for packages.
	Replace(ctx context.Context, packages []models.Package) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	ListByHR(ctx context.Context, hrEmail string, page Page) ([]models.Payment, int64, error)
}
