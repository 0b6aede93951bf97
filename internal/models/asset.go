// internal/models/asset.go
package models

import "time"

type Asset struct {
	BaseModel         `bson:",inline"`
	ProductName       string      `json:"productName" bson:"productName" gorm:"size:255;not null"`
	ProductImage      string      `json:"productImage" bson:"productImage" gorm:"type:text"`
	ProductType       ProductType `json:"productType" bson:"productType" gorm:"type:varchar(20);not null;index"`
	ProductQuantity   int         `json:"productQuantity" bson:"productQuantity" gorm:"not null"`
	AvailableQuantity int         `json:"availableQuantity" bson:"availableQuantity" gorm:"not null"`
	HREmail           string      `json:"hrEmail" bson:"hrEmail" gorm:"size:255;not null;index"`
	CompanyName       string      `json:"companyName" bson:"companyName" gorm:"size:255"`
	DateAdded         time.Time   `json:"dateAdded" bson:"dateAdded" gorm:"index"`
}

// AssetTypeCount is one bucket of the per-type asset split.
type AssetTypeCount struct {
	ProductType ProductType `json:"type" bson:"_id"`
	Count       int64       `json:"count" bson:"count"`
}
