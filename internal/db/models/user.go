// Package models holds the gorm models of the workspace.
package models

import (
	"time"
)

// UserProfile is the per-user record created lazily on first sign in.
// Display fields here are the source of truth; GroupMember, Task and
// Document carry snapshots of some of them.
type UserProfile struct {
	// UID is the identity provider's stable user id.
	UID string `gorm:"primaryKey;size:128" json:"uid"`
	// Email as reported by the identity provider.
	Email string `gorm:"size:255" json:"email"`
	// DisplayName shown to other members.
	DisplayName string `gorm:"size:255" json:"displayName"`
	// PhotoURL of the avatar, may be empty.
	PhotoURL string `gorm:"size:1024" json:"photoURL"`
	// GroupID is the group the user belongs to, nil while not in a group.
	GroupID *string `gorm:"size:36;index" json:"groupId"`
	// Title is the job title.
	Title string `gorm:"size:255" json:"title"`
	// Department the user works in.
	Department string `gorm:"size:255" json:"department"`
	// Phone number.
	Phone string `gorm:"size:64" json:"phone"`
	// Bio is a free text self description.
	Bio string `gorm:"type:text" json:"bio"`
	// Location such as a city.
	Location string `gorm:"size:255" json:"location"`
	// Timezone as IANA name.
	Timezone string `gorm:"size:64" json:"timezone"`
	// CreatedAt is managed by gorm.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is managed by gorm.
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the UserProfile model.
func (UserProfile) TableName() string {
	return "users"
}

// InGroup reports whether the profile is attached to a group.
func (u *UserProfile) InGroup() bool {
	return u.GroupID != nil && *u.GroupID != ""
}
