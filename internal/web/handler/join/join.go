// Package join serves the invite link landing page.
//
// Visiting /join?code=XXXXXX shows the group the code belongs to and keeps
// the code in a cookie. Whichever sign in completes next joins that group.
package join

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/middleware/ratelimit"
)

const (
	// Path is the invite link landing page.
	Path = handler.RootPath + "join"

	pendingTTL = time.Hour
)

// Service is the join page handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the join page handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the join page handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Get(Path, ratelimit.New(deps.Cfg.Webserver.JoinRateLimit), s.Get)

	return nil
}

// Get renders the landing page.
func (s *Service) Get(c *fiber.Ctx) error {
	code := c.Query("code")

	data := fiber.Map{
		"Title": s.deps.Cfg.Title,
		"Code":  code,
		"OIDC":  s.deps.OIDC != nil,
	}

	group, err := s.deps.Workspace.LookupJoinCode(c.UserContext(), code)
	if err != nil {
		data["Error"] = err.Error()

		return c.Status(handler.Status(err)).Render("join", data)
	}

	c.Cookie(&fiber.Cookie{
		Name:     handler.PendingJoinCookie,
		Value:    group.JoinCode,
		MaxAge:   int(pendingTTL.Seconds()),
		Secure:   !s.deps.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	data["Group"] = group.Name
	data["Code"] = group.JoinCode

	return c.Render("join", data)
}
