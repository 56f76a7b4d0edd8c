// Package oidc provides handlers for the OpenID Connect (OIDC) sign in flow.
//
// The flow includes:
//   - Login initiation with CSRF protection via state tokens kept in the session storage
//   - Authorization callback handling with ID token verification
//   - Profile creation on first sign in and joining a pending invite
//   - Session creation and cookie management
//
// Example usage:
//
//	_ = oidc.Handler.Init(app, deps)
//
//	// Users can then access:
//	// GET  /auth/oidc/login    - Initiate OIDC login flow
//	// GET  /auth/oidc/callback - Handle provider callback
package oidc
