// Package auth signs users in and turns them into an Identity.
//
// Two providers exist:
//   - LocalProvider keeps email and password credentials in the database,
//     hashed with Argon2id.
//   - OIDCProvider runs the OAuth2 authorization code flow against an
//     OpenID Connect provider and reads the identity from the verified ID token.
//
// Both hand back an Identity. The web layer stores Identity.UID in the session
// and lets the workspace service create the profile on first sign in.
//
// Example usage:
//
//	local := auth.NewLocalProvider(db)
//	id, err := local.SignUp(ctx, "ada@example.com", "correct horse", "Ada")
//
//	oidcProvider, err := auth.NewOIDCProvider(ctx, &auth.OIDCConfig{...})
//	http.Redirect(w, r, oidcProvider.GetAuthURL(state), http.StatusFound)
//	id, err = oidcProvider.HandleCallback(ctx, code)
package auth
