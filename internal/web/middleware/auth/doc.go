// Package auth provides authentication middleware for the JSON API.
//
// The middleware reads the session cookie, loads the session data and puts
// the signed in uid into fiber.Locals under handler.LocalUID. Requests
// without a valid session are answered with 401 and never reach the handler.
//
// Usage:
//
//	api := app.Group("/api", authmiddleware.Middleware)
package auth
