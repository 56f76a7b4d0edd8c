package oidc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/login"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// stateTTL is how long a login may take at the provider.
	stateTTL = 5 * time.Minute

	statePrefix = "oidc_state:"

	// StateCookie ties a pending login to the browser that started it.
	StateCookie = "oidc_state"
)

// stateMu makes reading and deleting a state one step.
var stateMu sync.Mutex //nolint:gochecknoglobals

// consumeState reports whether state was issued and not used yet, and
// invalidates it.
func consumeState(state string) bool {
	key := statePrefix + state

	stateMu.Lock()
	defer stateMu.Unlock()

	stored, err := session.Store.Storage.Get(key)
	if err != nil || len(stored) == 0 {
		return false
	}

	if err = session.Store.Storage.Delete(key); err != nil {
		log.Error().Err(err).Msg("Failed to delete state token")
		return false
	}

	return true
}

// Provider is the part of auth.OIDCProvider the handler uses.
type Provider interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*auth.Identity, error)
}

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	deps     *handler.Deps
	provider Provider
}

// Handler is the OIDC handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the routes when an OIDC provider is configured.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	if deps.OIDC == nil {
		log.Info().Msg("OIDC authentication is disabled by configuration")
		return nil
	}

	s.provider = deps.OIDC

	router.Get(LoginPath, s.Login)
	router.Get(CallbackPath, s.Callback)

	return nil
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate state token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	if err = session.Store.Storage.Set(statePrefix+state, []byte{1}, stateTTL); err != nil {
		log.Error().Err(err).Msg("Failed to store state token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Value:    state,
		MaxAge:   int(stateTTL.Seconds()),
		Secure:   !s.deps.Cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("Missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	browserState := c.Cookies(StateCookie)
	c.ClearCookie(StateCookie)

	if browserState != state || !consumeState(state) {
		log.Error().Msg("Invalid or expired state token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	id, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")
		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	if _, err = login.Complete(c, s.deps, id); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("failed to complete OIDC sign in")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	return c.Redirect(handler.RootPath)
}
