package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// Deps are the services handlers work with.
type Deps struct {
	Cfg       *config.Config
	Workspace *workspace.Service
	Local     *auth.LocalProvider
	// OIDC is nil when sign in through OIDC is disabled.
	OIDC *auth.OIDCProvider
}

// Service is the interface for a web handler service.
type Service interface {
	Init(router fiber.Router, deps *Deps) error
}
