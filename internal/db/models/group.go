package models

import "time"

// Group is a team workspace. Every other workspace record is scoped to one.
type Group struct {
	// ID is a random uuid.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Name shown to members and on the invite page.
	Name string `gorm:"size:255;not null" json:"name"`
	// JoinCode is the upper case invite code, unique across groups.
	JoinCode string `gorm:"size:6;uniqueIndex;not null" json:"joinCode"`
	// CreatedAt is when the group was founded.
	CreatedAt time.Time `json:"createdAt"`
	// CreatedBy is the founder's uid.
	CreatedBy string `gorm:"size:128;not null" json:"createdBy"`
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
