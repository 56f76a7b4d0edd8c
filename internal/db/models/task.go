package models

import "time"

// TaskStatus is the workflow state of a task.
type TaskStatus string

// Task statuses. Analytics only knows these three.
const (
	TaskToDo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

// TaskStatuses in board order.
var TaskStatuses = []TaskStatus{TaskToDo, TaskInProgress, TaskDone} //nolint:gochecknoglobals

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	return s == TaskToDo || s == TaskInProgress || s == TaskDone
}

// Priority of a task.
type Priority string

// Task priorities.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Task is a unit of work assigned to a member.
// AssigneeName and AssigneePhotoURL are copied at creation and not kept in
// sync with later profile edits.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	GroupID     string     `gorm:"size:36;index;not null" json:"groupId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(16);not null" json:"status"`
	Priority    Priority   `gorm:"type:varchar(8);not null" json:"priority"`
	Deadline    *time.Time `json:"deadline"`
	AssignedTo  string     `gorm:"size:128;index" json:"assignedTo"`
	CreatedBy   string     `gorm:"size:128" json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ProjectID   *string    `gorm:"size:36;index" json:"projectId"`

	AssigneeName     string `gorm:"size:255" json:"assigneeName"`
	AssigneePhotoURL string `gorm:"size:1024" json:"assigneePhotoURL"`

	// CompletedAt is set when the task moves to Done and cleared when it leaves Done.
	CompletedAt *time.Time `json:"completedAt"`
}

// TableName specifies the database table name for the Task model.
func (Task) TableName() string {
	return "tasks"
}
