package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")

	// ErrMissingSubject is returned when an ID token carries no sub claim.
	ErrMissingSubject = errors.New("id token has no subject")

	// ErrEmailTaken is returned when signing up with an email that already has a credential.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// The two cases are not told apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
