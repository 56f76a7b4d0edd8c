package models

import "time"

// Role of a member inside a group.
type Role string

const (
	// RoleAdmin may change roles and remove members.
	RoleAdmin Role = "admin"
	// RoleMember is the default role of users joining by code.
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// GroupMember links a user to a group and keeps a snapshot of the user's
// display fields so member lists render without reading every profile.
type GroupMember struct {
	// GroupID of the group.
	GroupID string `gorm:"primaryKey;size:36" json:"groupId"`
	// UID of the member. Unique on its own as a user belongs to at most one group.
	UID string `gorm:"primaryKey;size:128;uniqueIndex:idx_group_members_uid" json:"uid"`
	// Role inside the group.
	Role Role `gorm:"type:varchar(16);not null" json:"role"`
	// JoinedAt is when the membership was created.
	JoinedAt time.Time `json:"joinedAt"`

	DisplayName string `gorm:"size:255" json:"displayName"`
	PhotoURL    string `gorm:"size:1024" json:"photoURL"`
	Email       string `gorm:"size:255" json:"email"`
	Title       string `gorm:"size:255" json:"title"`
	Department  string `gorm:"size:255" json:"department"`
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return "group_members"
}

// NewGroupMember snapshots profile into a membership of groupID.
func NewGroupMember(groupID string, profile *UserProfile, role Role, joinedAt time.Time) GroupMember {
	return GroupMember{
		GroupID:     groupID,
		UID:         profile.UID,
		Role:        role,
		JoinedAt:    joinedAt,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
		Email:       profile.Email,
		Title:       profile.Title,
		Department:  profile.Department,
	}
}
