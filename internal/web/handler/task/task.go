// Package task serves the tasks of the current group.
package task

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// Path of the task collection below the API router.
const Path = "/tasks"

// Service is the task handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the task handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the task handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, s.List)
		r.Post(handler.RootPath, s.Create)
		r.Get("/:id", s.Get)
		r.Patch("/:id", s.Update)
		r.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns the tasks of the current group.
func (s *Service) List(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	tasks, err := s.deps.Workspace.ListTasks(c.UserContext(), handler.UID(c), groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(tasks)
}

// Create adds a task.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(workspace.TaskInput)
	if err := c.BodyParser(in); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	t, err := s.deps.Workspace.CreateTask(c.UserContext(), handler.UID(c), groupID, *in)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(t)
}

// Get returns one task.
func (s *Service) Get(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	t, err := s.deps.Workspace.GetTask(c.UserContext(), handler.UID(c), groupID, c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(t)
}

// Update changes the fields present in the body.
func (s *Service) Update(c *fiber.Ctx) error {
	patch := new(workspace.TaskPatch)
	if err := c.BodyParser(patch); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	t, err := s.deps.Workspace.UpdateTask(c.UserContext(), handler.UID(c), groupID, c.Params("id"), *patch)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(t)
}

// Delete removes a task.
func (s *Service) Delete(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.deps.Workspace.DeleteTask(c.UserContext(), handler.UID(c), groupID, c.Params("id")); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
