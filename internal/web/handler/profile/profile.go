// Package profile serves the signed in user's own profile.
package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// Path of the profile endpoint below the API router.
const Path = "/profile"

// Service is the profile handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the profile handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the profile handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Get(Path, s.Get)
	router.Patch(Path, s.Patch)

	return nil
}

// Get returns the profile.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := s.deps.Workspace.GetProfile(c.UserContext(), handler.UID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(p)
}

// Patch changes the fields present in the body.
func (s *Service) Patch(c *fiber.Ctx) error {
	patch := new(workspace.ProfilePatch)
	if err := c.BodyParser(patch); err != nil {
		return handler.Error(c, fiber.NewError(fiber.StatusBadRequest, "invalid request body"))
	}

	p, err := s.deps.Workspace.UpdateProfile(c.UserContext(), handler.UID(c), *patch)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(p)
}
