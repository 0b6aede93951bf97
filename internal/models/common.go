// internal/models/common.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. The identifier is an opaque UUID string so
// the same records round-trip through SQL and document stores.
type BaseModel struct {
	ID        string    `json:"_id" bson:"_id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// EnsureID assigns a new identifier and timestamps when the record has none.
func (b *BaseModel) EnsureID() {
	if b.ID == "" {
		b.ID = NewID()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	b.EnsureID()
	return nil
}

func NewID() string {
	return uuid.New().String()
}

// NormalizeEmail lowercases and trims an email so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Enums
type Role string

const (
	RoleHR       Role = "Hr"
	RoleEmployee Role = "Employee"
)

// Matches compares roles case-insensitively.
func (r Role) Matches(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

func (r Role) Valid() bool {
	return r.Matches(RoleHR) || r.Matches(RoleEmployee)
}

type UserStatus string

const (
	UserStatusPending    UserStatus = "pending"
	UserStatusAffiliated UserStatus = "affiliated"
	UserStatusActive     UserStatus = "active"
)

type ProductType string

const (
	ProductTypeReturnable    ProductType = "Returnable"
	ProductTypeNonReturnable ProductType = "Non-returnable"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeReturnable || t == ProductTypeNonReturnable
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned AssignmentStatus = "assigned"
	AssignmentStatusReturned AssignmentStatus = "returned"
)

type AffiliationStatus string

const (
	AffiliationStatusActive  AffiliationStatus = "active"
	AffiliationStatusRemoved AffiliationStatus = "removed"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
)

const (
	DefaultSubscription = "basic"
	DefaultPackageLimit = 5
	DefaultPosition     = "not assigned"
	DefaultCompanyName  = "Unknown"
)
