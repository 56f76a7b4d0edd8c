package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// Status maps err to the HTTP status answering it.
func Status(err error) int {
	var (
		fe         *fiber.Error
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.Is(err, workspace.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, workspace.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, workspace.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, workspace.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Error answers the request with err. Internal errors are logged and
// replaced by a generic message.
func Error(c *fiber.Ctx, err error) error {
	status := Status(err)
	msg := err.Error()

	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = "internal server error"
	}

	return c.Status(status).JSON(ErrorBody{Error: msg})
}

// UID returns the signed in uid stored by the auth middleware.
func UID(c *fiber.Ctx) string {
	uid, _ := c.Locals(LocalUID).(string)

	return uid
}

// CurrentGroupID returns the group of the signed in user.
func CurrentGroupID(c *fiber.Ctx, ws *workspace.Service) (string, error) {
	group, _, err := ws.CurrentGroup(c.UserContext(), UID(c))
	if err != nil {
		return "", err
	}

	return group.ID, nil
}

var validate = validator.New() //nolint:gochecknoglobals

// Bind parses the request body into in and validates its struct tags.
func Bind(c *fiber.Ctx, in any) error {
	if err := c.BodyParser(in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return validate.Struct(in) //nolint:wrapcheck
}
