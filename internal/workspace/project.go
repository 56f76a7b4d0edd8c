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

// ProjectInput creates a project. Status defaults to On Track.
type ProjectInput struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	DueDate     *time.Time           `json:"dueDate"`
}

// ProjectPatch changes a project. Nil fields stay untouched.
type ProjectPatch struct {
	Name         *string               `json:"name"`
	Description  *string               `json:"description"`
	Status       *models.ProjectStatus `json:"status"`
	DueDate      *time.Time            `json:"dueDate"`
	ClearDueDate bool                  `json:"clearDueDate"`
}

// CreateProject adds a project to groupID.
func (s *Service) CreateProject(ctx context.Context, uid, groupID string, in ProjectInput) (*models.Project, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if in.Status == "" {
		in.Status = models.ProjectOnTrack
	}

	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := s.now()
	p := &models.Project{
		ID:          s.newID(),
		GroupID:     groupID,
		Name:        name,
		Description: s.sanitize(in.Description),
		Status:      in.Status,
		DueDate:     in.DueDate,
		CreatedBy:   uid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.publish(groupID, realtime.Projects)

	return p, nil
}

func findProject(tx *gorm.DB, groupID, projectID string) (*models.Project, error) {
	var p models.Project

	err := tx.Where("group_id = ? AND id = ?", groupID, projectID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &p, nil
}

// GetProject returns one project of groupID.
func (s *Service) GetProject(ctx context.Context, uid, groupID, projectID string) (*models.Project, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	return findProject(s.db.WithContext(ctx), groupID, projectID)
}

// UpdateProject applies patch to a project.
func (s *Service) UpdateProject(
	ctx context.Context,
	uid, groupID, projectID string,
	patch ProjectPatch,
) (*models.Project, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	cols := map[string]any{"updated_at": s.now()}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrEmptyName
		}

		cols["name"] = name
	}

	if patch.Description != nil {
		cols["description"] = s.sanitize(*patch.Description)
	}

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidStatus
		}

		cols["status"] = *patch.Status
	}

	switch {
	case patch.ClearDueDate:
		cols["due_date"] = nil
	case patch.DueDate != nil:
		cols["due_date"] = *patch.DueDate
	}

	var p *models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findProject(tx, groupID, projectID); err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Updates(cols).Error; err != nil {
			return fmt.Errorf("update project: %w", err)
		}

		var err error
		p, err = findProject(tx, groupID, projectID)

		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(groupID, realtime.Projects)

	return p, nil
}

// DeleteProject removes a project. Its tasks and documents stay and lose the reference.
func (s *Service) DeleteProject(ctx context.Context, uid, groupID, projectID string) error {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findProject(tx, groupID, projectID); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Update("project_id", nil).Error; err != nil {
			return fmt.Errorf("detach tasks: %w", err)
		}

		if err := tx.Model(&models.Document{}).Where("project_id = ?", projectID).Update("project_id", nil).Error; err != nil {
			return fmt.Errorf("detach documents: %w", err)
		}

		if err := tx.Where("id = ?", projectID).Delete(&models.Project{}).Error; err != nil {
			return fmt.Errorf("delete project: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.publish(groupID, realtime.Projects, realtime.Tasks, realtime.Documents)

	return nil
}

// ListProjects returns the projects of groupID, newest first.
func (s *Service) ListProjects(ctx context.Context, uid, groupID string) ([]models.Project, error) {
	if _, err := s.requireMember(ctx, groupID, uid); err != nil {
		return nil, err
	}

	var projects []models.Project

	err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return projects, nil
}
