// Package login provides HTTP handlers for email and password sign up and sign in.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrLocalAuthDisabled is returned when local (email/password) authentication
	// is disabled by configuration.
	ErrLocalAuthDisabled = errors.New("local authentication is disabled")
)
