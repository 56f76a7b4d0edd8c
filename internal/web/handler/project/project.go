// Package project serves the projects of the current group.
package project

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// Path of the project collection below the API router.
const Path = "/projects"

// Service is the project handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the project handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the project handler.
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

// List returns the projects of the current group.
func (s *Service) List(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	projects, err := s.deps.Workspace.ListProjects(c.UserContext(), handler.UID(c), groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(projects)
}

// Create adds a project.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(workspace.ProjectInput)
	if err := c.BodyParser(in); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	p, err := s.deps.Workspace.CreateProject(c.UserContext(), handler.UID(c), groupID, *in)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get returns one project.
func (s *Service) Get(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	p, err := s.deps.Workspace.GetProject(c.UserContext(), handler.UID(c), groupID, c.Params("id"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(p)
}

// Update changes the fields present in the body.
func (s *Service) Update(c *fiber.Ctx) error {
	patch := new(workspace.ProjectPatch)
	if err := c.BodyParser(patch); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	p, err := s.deps.Workspace.UpdateProject(c.UserContext(), handler.UID(c), groupID, c.Params("id"), *patch)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(p)
}

// Delete removes a project.
func (s *Service) Delete(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.deps.Workspace.DeleteProject(c.UserContext(), handler.UID(c), groupID, c.Params("id")); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
