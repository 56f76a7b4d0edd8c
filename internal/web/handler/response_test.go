package handler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "fiber error", err: fiber.ErrUnprocessableEntity, want: fiber.StatusUnprocessableEntity},
		{name: "invalid input", err: workspace.ErrInvalidJoinCode, want: fiber.StatusBadRequest},
		{name: "not found", err: workspace.ErrJoinCodeNotFound, want: fiber.StatusNotFound},
		{name: "forbidden", err: workspace.ErrNotAdmin, want: fiber.StatusForbidden},
		{name: "conflict", err: workspace.ErrAlreadyInGroup, want: fiber.StatusConflict},
		{name: "last admin", err: &workspace.LastAdminError{Action: "remove"}, want: fiber.StatusConflict},
		{name: "wrapped", err: fmt.Errorf("outer: %w", workspace.ErrTaskNotFound), want: fiber.StatusNotFound},
		{name: "bad login", err: auth.ErrInvalidCredentials, want: fiber.StatusUnauthorized},
		{name: "email taken", err: auth.ErrEmailTaken, want: fiber.StatusConflict},
		{name: "weak password", err: auth.ErrWeakPassword, want: fiber.StatusBadRequest},
		{name: "exhausted codes", err: workspace.ErrJoinCodeExhausted, want: fiber.StatusInternalServerError},
		{name: "unknown", err: errors.New("db down"), want: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.Status(tt.err))
		})
	}
}
