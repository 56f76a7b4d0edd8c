package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
)

// TaskInput creates a task. Status defaults to To Do and priority to Medium.
type TaskInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	Deadline    *time.Time        `json:"deadline"`
	AssignedTo  string            `json:"assignedTo"`
	ProjectID   *string           `json:"projectId"`
}

// TaskPatch changes a task. Nil fields stay untouched.
type TaskPatch struct {
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	Status        *models.TaskStatus `json:"status"`
	Priority      *models.Priority   `json:"priority"`
	Deadline      *time.Time         `json:"deadline"`
	ClearDeadline bool               `json:"clearDeadline"`
	AssignedTo    *string            `json:"assignedTo"`
	ProjectID     *string            `json:"projectId"`
	ClearProject  bool               `json:"clearProject"`
}

// assignee resolves the member a task is assigned to. Empty uid means unassigned.
func assignee(tx *gorm.DB, groupID, uid string) (*models.GroupMember, error) {
	if uid == "" {
		return &models.GroupMember{}, nil
	}

	m, err := membership(tx, groupID, uid)
	if errors.Is(err, ErrNotMember) {
		return nil, ErrAssigneeNotMember
	}

	return m, err
}

// CreateTask adds a task to groupID. The assignee's name and photo are copied
// into the task as they are now.
func (s *Service) CreateTask(ctx context.Context, uid, groupID string, in TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyName
	}

	if in.Status == "" {
		in.Status = models.TaskToDo
	}

	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var task *models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := membership(tx, groupID, uid); err != nil {
			return err
		}

		who, err := assignee(tx, groupID, in.AssignedTo)
		if err != nil {
			return err
		}

		if in.ProjectID != nil {
			if _, err = findProject(tx, groupID, *in.ProjectID); err != nil {
				return err
			}
		}

		now := s.now()
		task = &models.Task{
			ID:               s.newID(),
			GroupID:          groupID,
			Title:            title,
			Description:      s.sanitize(in.Description),
			Status:           in.Status,
			Priority:         in.Priority,
			Deadline:         in.Deadline,
			AssignedTo:       in.AssignedTo,
			CreatedBy:        uid,
			CreatedAt:        now,
			UpdatedAt:        now,
			ProjectID:        in.ProjectID,
			AssigneeName:     who.DisplayName,
			AssigneePhotoURL: who.PhotoURL,
		}

		if in.Status == models.TaskDone {
			task.CompletedAt = &now
		}

		if err = tx.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(groupID, realtime.Tasks)

	return task, nil
}

func findTask(tx *gorm.DB, groupID, taskID string) (*models.Task, error) {
	var t models.Task

	err := tx.Where("group_id = ? AND id = ?", groupID, taskID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &t, nil
}

// GetTask returns one task of groupID.
func (s *Service) GetTask(ctx context.Context, uid, groupID, taskID string) (*models.Task, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	return findTask(s.db.WithContext(ctx), groupID, taskID)
}

// taskColumns validates patch and returns the columns to write.
// Moving into Done stamps CompletedAt, moving out of Done clears it.
func (s *Service) taskColumns(tx *gorm.DB, current *models.Task, patch TaskPatch) (map[string]any, error) {
	now := s.now()
	cols := map[string]any{"updated_at": now}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrEmptyName
		}

		cols["title"] = title
	}

	if patch.Description != nil {
		cols["description"] = s.sanitize(*patch.Description)
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}

		cols["status"] = *patch.Status

		switch {
		case *patch.Status == models.TaskDone && current.Status != models.TaskDone:
			cols["completed_at"] = now
		case *patch.Status != models.TaskDone:
			cols["completed_at"] = nil
		}
	}

	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, ErrInvalidPriority
		}

		cols["priority"] = *patch.Priority
	}

	switch {
	case patch.ClearDeadline:
		cols["deadline"] = nil
	case patch.Deadline != nil:
		cols["deadline"] = *patch.Deadline
	}

	if patch.AssignedTo != nil && *patch.AssignedTo != current.AssignedTo {
		who, err := assignee(tx, current.GroupID, *patch.AssignedTo)
		if err != nil {
			return nil, err
		}

		cols["assigned_to"] = *patch.AssignedTo
		cols["assignee_name"] = who.DisplayName
		cols["assignee_photo_url"] = who.PhotoURL
	}

	switch {
	case patch.ClearProject:
		cols["project_id"] = nil
	case patch.ProjectID != nil:
		if _, err := findProject(tx, current.GroupID, *patch.ProjectID); err != nil {
			return nil, err
		}

		cols["project_id"] = *patch.ProjectID
	}

	return cols, nil
}

// UpdateTask applies patch to a task.
func (s *Service) UpdateTask(ctx context.Context, uid, groupID, taskID string, patch TaskPatch) (*models.Task, error) {
	var task *models.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := membership(tx, groupID, uid); err != nil {
			return err
		}

		current, err := findTask(tx, groupID, taskID)
		if err != nil {
			return err
		}

		cols, err := s.taskColumns(tx, current, patch)
		if err != nil {
			return err
		}

		if err = tx.Model(&models.Task{}).Where("id = ?", taskID).Updates(cols).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		task, err = findTask(tx, groupID, taskID)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(groupID, realtime.Tasks)

	return task, nil
}

// DeleteTask removes a task. Documents attached to it lose the reference.
func (s *Service) DeleteTask(ctx context.Context, uid, groupID, taskID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := membership(tx, groupID, uid); err != nil {
			return err
		}

		if _, err := findTask(tx, groupID, taskID); err != nil {
			return err
		}

		if err := tx.Model(&models.Document{}).Where("task_id = ?", taskID).Update("task_id", nil).Error; err != nil {
			return fmt.Errorf("detach documents: %w", err)
		}

		if err := tx.Where("id = ?", taskID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(groupID, realtime.Tasks, realtime.Documents)

	return nil
}

// ListTasks returns the tasks of groupID, newest first.
func (s *Service) ListTasks(ctx context.Context, uid, groupID string) ([]models.Task, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	var tasks []models.Task

	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}
