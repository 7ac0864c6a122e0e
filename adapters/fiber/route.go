// Package fiber exposes an authflow.Authenticator over HTTP using the
// Fiber framework. It covers the non-interactive flows; social logins
// run through their OAuth adapters out of band.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mavrk/authflow"
)

type Adapter struct {
	app  *fiber.App
	auth authflow.Authenticator
}

func New(app *fiber.App, auth authflow.Authenticator) *Adapter {
	return &Adapter{app: app, auth: auth}
}

// RegisterRoutes mounts the authentication endpoints under basePath.
func (a *Adapter) RegisterRoutes(basePath string) {
	api := a.app.Group(basePath)

	// Public routes
	api.Post("/sign-up", a.signUp)
	api.Post("/sign-in", a.signIn)
	api.Post("/email-check", a.emailCheck)
	api.Post("/reset-password", a.resetPassword)

	// Protected routes
	api.Post("/sign-out", a.RequireSession, a.signOut)
	api.Post("/change-password", a.RequireSession, a.changePassword)
	api.Get("/token", a.RequireSession, a.token)
	api.Get("/session", a.RequireSession, a.session)
}
