// internal/models/affiliation.go
package models

import "time"

// Affiliation links an employee to an HR's company.
type Affiliation struct {
	BaseModel       `bson:",inline"`
	EmployeeEmail   string            `json:"employeeEmail" bson:"employeeEmail" gorm:"size:255;not null;index"`
	EmployeeName    string            `json:"employeeName" bson:"employeeName" gorm:"size:255"`
	HREmail         string            `json:"hrEmail" bson:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName     string            `json:"companyName" bson:"companyName" gorm:"size:255;index"`
	CompanyLogo     string            `json:"companyLogo" bson:"companyLogo" gorm:"type:text"`
	AffiliationDate time.Time         `json:"affiliationDate" bson:"affiliationDate"`
	RemovedDate     *time.Time        `json:"removedDate,omitempty" bson:"removedDate,omitempty"`
	Status          AffiliationStatus `json:"status" bson:"status" gorm:"type:varchar(20);default:'active';index"`
}

func (a *Affiliation) IsActive() bool {
	return a.Status == AffiliationStatusActive
}
