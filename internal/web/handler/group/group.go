// Package group serves group creation, joining and member management.
package group

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/middleware/ratelimit"
)

// Service is the group handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the group handler.
var Handler = Service{} //nolint:gochecknoglobals

type createForm struct {
	Name string `json:"name" validate:"required,max=100"`
}

type joinForm struct {
	Code string `json:"code" validate:"required"`
}

type roleForm struct {
	Role models.Role `json:"role" validate:"required,oneof=admin member"`
}

// Current is the group of the signed in user and their role in it.
type Current struct {
	Group *models.Group `json:"group"`
	Role  models.Role   `json:"role"`
}

// Init initializes the group handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Post("/groups", s.Create)
	router.Post("/groups/join", ratelimit.New(deps.Cfg.Webserver.JoinRateLimit), s.Join)

	router.Get("/group", s.Get)
	router.Post("/group/leave", s.Leave)
	router.Get("/group/members", s.Members)
	router.Patch("/group/members/:uid", s.UpdateRole)
	router.Delete("/group/members/:uid", s.Remove)

	return nil
}

// Create founds a group with the signed in user as admin.
func (s *Service) Create(c *fiber.Ctx) error {
	form := new(createForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	g, err := s.deps.Workspace.CreateGroup(c.UserContext(), handler.UID(c), form.Name)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Current{Group: g, Role: models.RoleAdmin})
}

// Join adds the signed in user to the group of the posted code.
func (s *Service) Join(c *fiber.Ctx) error {
	form := new(joinForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	g, err := s.deps.Workspace.JoinGroup(c.UserContext(), handler.UID(c), form.Code)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(Current{Group: g, Role: models.RoleMember})
}

// Get returns the current group.
func (s *Service) Get(c *fiber.Ctx) error {
	g, m, err := s.deps.Workspace.CurrentGroup(c.UserContext(), handler.UID(c))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(Current{Group: g, Role: m.Role})
}

// Leave removes the signed in user from their group.
func (s *Service) Leave(c *fiber.Ctx) error {
	if err := s.deps.Workspace.LeaveGroup(c.UserContext(), handler.UID(c)); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Members lists the members of the current group.
func (s *Service) Members(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	members, err := s.deps.Workspace.ListMembers(c.UserContext(), handler.UID(c), groupID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(members)
}

// UpdateRole changes the role of a member.
func (s *Service) UpdateRole(c *fiber.Ctx) error {
	form := new(roleForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	m, err := s.deps.Workspace.UpdateMemberRole(c.UserContext(), handler.UID(c), groupID, c.Params("uid"), form.Role)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(m)
}

// Remove deletes a member from the current group.
func (s *Service) Remove(c *fiber.Ctx) error {
	groupID, err := handler.CurrentGroupID(c, s.deps.Workspace)
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.deps.Workspace.RemoveMember(c.UserContext(), handler.UID(c), groupID, c.Params("uid")); err != nil {
		return handler.Error(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
