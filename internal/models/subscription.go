// internal/models/subscription.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Package is one entry of the subscription catalog.
type Package struct {
	BaseModel     `bson:",inline"`
	Name          string                      `json:"name" bson:"name" yaml:"name" gorm:"uniqueIndex;size:100;not null"`
	EmployeeLimit int                         `json:"employeeLimit" bson:"employeeLimit" yaml:"employeeLimit" gorm:"not null"`
	Price         float64                     `json:"price" bson:"price" yaml:"price" gorm:"type:decimal(10,2);not null"`
	Features      datatypes.JSONSlice[string] `json:"features" bson:"features" yaml:"features"`
}

// AmountCents converts the package price to the smallest currency unit.
func (p *Package) AmountCents() int64 {
	return int64(p.Price*100 + 0.5)
}

type Payment struct {
	BaseModel     `bson:",inline"`
	HREmail       string        `json:"hrEmail" bson:"hrEmail" gorm:"size:255;not null;index"`
	PackageName   string        `json:"packageName" bson:"packageName" gorm:"size:100;not null"`
	EmployeeLimit int           `json:"employeeLimit" bson:"employeeLimit" gorm:"not null"`
	Amount        float64       `json:"amount" bson:"amount" gorm:"type:decimal(10,2);not null"`
	TransactionID string        `json:"transactionId" bson:"transactionId" gorm:"uniqueIndex;size:255;not null"`
	SessionID     string        `json:"sessionId" bson:"sessionId" gorm:"size:255;index"`
	PaymentDate   time.Time     `json:"paymentDate" bson:"paymentDate" gorm:"index"`
	Status        PaymentStatus `json:"status" bson:"status" gorm:"type:varchar(20);not null"`
}
