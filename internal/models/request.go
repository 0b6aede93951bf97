// internal/models/request.go
package models

import "time"

// Request is an employee's ask for one unit of an asset.
type Request struct {
	BaseModel      `bson:",inline"`
	AssetID        string        `json:"assetId" bson:"assetId" gorm:"type:varchar(36);not null;uniqueIndex:idx_requests_requester_asset,priority:2"`
	AssetName      string        `json:"assetName" bson:"assetName" gorm:"size:255"`
	AssetImage     string        `json:"assetImage" bson:"assetImage" gorm:"type:text"`
	AssetType      ProductType   `json:"assetType" bson:"assetType" gorm:"type:varchar(20)"`
	RequesterEmail string        `json:"requesterEmail" bson:"requesterEmail" gorm:"size:255;not null;uniqueIndex:idx_requests_requester_asset,priority:1"`
	RequesterName  string        `json:"requesterName" bson:"requesterName" gorm:"size:255"`
	HREmail        string        `json:"hrEmail" bson:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName    string        `json:"companyName" bson:"companyName" gorm:"size:255"`
	Note           string        `json:"note,omitempty" bson:"note,omitempty" gorm:"type:text"`
	RequestStatus  RequestStatus `json:"requestStatus" bson:"requestStatus" gorm:"type:varchar(20);default:'pending';index"`
	RequestDate    time.Time     `json:"requestDate" bson:"requestDate" gorm:"index"`
	ApprovalDate   *time.Time    `json:"approvalDate,omitempty" bson:"approvalDate,omitempty"`
	ProcessedBy    string        `json:"processedBy,omitempty" bson:"processedBy,omitempty" gorm:"size:255"`
}

func (r *Request) IsPending() bool {
	return r.RequestStatus == RequestStatusPending
}

// RequestCount is an asset with the number of requests filed against it.
type RequestCount struct {
	AssetID   string `json:"assetId" bson:"_id"`
	AssetName string `json:"assetName" bson:"assetName"`
	Count     int64  `json:"count" bson:"count"`
}
