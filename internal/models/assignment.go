// internal/models/assignment.go
package models

import "time"

// AssignedAsset records one unit of an asset held by an employee.
type AssignedAsset struct {
	BaseModel      `bson:",inline"`
	AssetID        string           `json:"assetId" bson:"assetId" gorm:"type:varchar(36);not null;index"`
	AssetName      string           `json:"assetName" bson:"assetName" gorm:"size:255"`
	AssetImage     string           `json:"assetImage" bson:"assetImage" gorm:"type:text"`
	AssetType      ProductType      `json:"assetType" bson:"assetType" gorm:"type:varchar(20);index"`
	EmployeeEmail  string           `json:"employeeEmail" bson:"employeeEmail" gorm:"size:255;not null;index"`
	EmployeeName   string           `json:"employeeName" bson:"employeeName" gorm:"size:255"`
	HREmail        string           `json:"hrEmail" bson:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName    string           `json:"companyName" bson:"companyName" gorm:"size:255"`
	RequestID      string           `json:"requestId" bson:"requestId" gorm:"type:varchar(36);index"`
	AssignmentDate time.Time        `json:"assignmentDate" bson:"assignmentDate" gorm:"index"`
	RequestDate    time.Time        `json:"requestDate" bson:"requestDate"`
	ReturnDate     *time.Time       `json:"returnDate" bson:"returnDate"`
	Status         AssignmentStatus `json:"status" bson:"status" gorm:"type:varchar(20);default:'assigned';index"`
}

func (a *AssignedAsset) IsAssigned() bool {
	return a.Status == AssignmentStatusAssigned
}
