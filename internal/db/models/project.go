package models

import "time"

// ProjectStatus is the health of a project.
type ProjectStatus string

// Project statuses.
const (
	ProjectOnTrack   ProjectStatus = "On Track"
	ProjectAtRisk    ProjectStatus = "At Risk"
	ProjectOffTrack  ProjectStatus = "Off Track"
	ProjectCompleted ProjectStatus = "Completed"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectOnTrack, ProjectAtRisk, ProjectOffTrack, ProjectCompleted:
		return true
	}

	return false
}

// Project groups tasks and documents of a group.
type Project struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	GroupID     string        `gorm:"size:36;index;not null" json:"groupId"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(16);not null" json:"status"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedBy   string        `gorm:"size:128" json:"createdBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// TableName specifies the database table name for the Project model.
func (Project) TableName() string {
	return "projects"
}
