// internal/models/user.go
package models

import "time"

type User struct {
	BaseModel        `bson:",inline"`
	Name             string     `json:"name" bson:"name" gorm:"size:255"`
	Email            string     `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	Image            string     `json:"image" bson:"image" gorm:"type:text"`
	Role             Role       `json:"role" bson:"role" gorm:"type:varchar(20);not null;index"`
	Status           UserStatus `json:"status,omitempty" bson:"status,omitempty" gorm:"type:varchar(20)"`
	Position         string     `json:"position,omitempty" bson:"position,omitempty" gorm:"size:100"`
	DateOfBirth      *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	CompanyName      string     `json:"companyName,omitempty" bson:"companyName,omitempty" gorm:"size:255"`
	CompanyLogo      string     `json:"companyLogo,omitempty" bson:"companyLogo,omitempty" gorm:"type:text"`
	PackageLimit     int        `json:"packageLimit" bson:"packageLimit" gorm:"default:0"`
	CurrentEmployees int        `json:"currentEmployees" bson:"currentEmployees" gorm:"default:0"`
	Subscription     string     `json:"subscription,omitempty" bson:"subscription,omitempty" gorm:"size:50"`
}

func (u *User) IsHR() bool {
	return u.Role.Matches(RoleHR)
}

func (u *User) IsEmployee() bool {
	return u.Role.Matches(RoleEmployee)
}

// ApplyRoleDefaults fills the fields each role starts with on signup.
func (u *User) ApplyRoleDefaults() {
	switch {
	case u.IsHR():
		u.Role = RoleHR
		u.PackageLimit = DefaultPackageLimit
		u.CurrentEmployees = 0
		u.Subscription = DefaultSubscription
		u.Status = UserStatusActive
	case u.IsEmployee():
		u.Role = RoleEmployee
		u.Status = UserStatusPending
		u.Position = DefaultPosition
	}
}

// UserUpdate carries the profile fields a user may change about themselves.
type UserUpdate struct {
	Name        *string
	Image       *string
	DateOfBirth *time.Time
	Position    *string
	CompanyName *string
	CompanyLogo *string
}
