package login

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/models"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/session"
)

const (
	// SignUpPath creates a local account.
	SignUpPath = handler.APIPath + "/auth/signup"

	// Path signs in with email and password.
	Path = handler.APIPath + "/auth/login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

type signUpForm struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Password    string `json:"password" form:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" form:"displayName" validate:"max=100"`
}

type loginForm struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SignedIn is the answer to a successful sign in.
type SignedIn struct {
	Profile *models.UserProfile `json:"profile"`
	// Joined is the group an invite link led to, if joining it succeeded.
	Joined *models.Group `json:"joined,omitempty"`
}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.deps = deps

	router.Post(SignUpPath, s.SignUp)
	router.Post(Path, s.Post)

	return nil
}

// SignUp creates a local account and signs it in.
func (s *Service) SignUp(c *fiber.Ctx) error {
	if !s.deps.Cfg.Auth.Local.Enabled || s.deps.Local == nil {
		return handler.Error(c, fiber.NewError(fiber.StatusForbidden, ErrLocalAuthDisabled.Error()))
	}

	form := new(signUpForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	id, err := s.deps.Local.SignUp(c.UserContext(), form.Email, form.Password, form.DisplayName)
	if err != nil {
		return handler.Error(c, err)
	}

	return s.complete(c, id, fiber.StatusCreated)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.deps.Cfg.Auth.Local.Enabled || s.deps.Local == nil {
		return handler.Error(c, fiber.NewError(fiber.StatusForbidden, ErrLocalAuthDisabled.Error()))
	}

	form := new(loginForm)
	if err := handler.Bind(c, form); err != nil {
		return handler.Error(c, err)
	}

	id, err := s.deps.Local.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		log.Info().Str("email", form.Email).Msg("failed sign in")
		return handler.Error(c, err)
	}

	return s.complete(c, id, fiber.StatusOK)
}

func (s *Service) complete(c *fiber.Ctx, id *auth.Identity, status int) error {
	out, err := Complete(c, s.deps, id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.Status(status).JSON(out)
}

// Complete finishes any sign in: it ensures the profile, joins the group of a
// pending invite link and starts the session.
func Complete(c *fiber.Ctx, deps *handler.Deps, id *auth.Identity) (*SignedIn, error) {
	ctx := c.UserContext()

	profile, err := deps.Workspace.EnsureProfile(ctx, *id)
	if err != nil {
		return nil, err
	}

	out := &SignedIn{Profile: profile}

	if code := c.Cookies(handler.PendingJoinCookie); code != "" {
		out.Joined = joinPending(ctx, deps, profile.UID, code)

		c.ClearCookie(handler.PendingJoinCookie)

		if out.Joined != nil {
			if out.Profile, err = deps.Workspace.GetProfile(ctx, profile.UID); err != nil {
				return nil, err
			}
		}
	}

	data := &session.Data{UID: profile.UID, Email: profile.Email}
	if err = session.Start(c, data, deps.Cfg.Webserver.Session.ExpiryTime, !deps.Cfg.DevMode); err != nil {
		return nil, err
	}

	log.Info().Str("uid", profile.UID).Msg("signed in")

	return out, nil
}

// joinPending joins the group an invite link pointed to. Failing to join does
// not fail the sign in.
func joinPending(ctx context.Context, deps *handler.Deps, uid, code string) *models.Group {
	group, err := deps.Workspace.JoinGroup(ctx, uid, code)
	if err != nil {
		log.Info().Err(err).Str("uid", uid).Msg("pending invite not joined")
		return nil
	}

	return group
}
