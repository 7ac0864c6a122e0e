package fiber

import (
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/mavrk/authflow/core"
)

// RequireSession rejects requests when no user is signed in, and stores
// the session's user in the context for downstream handlers.
func (a *Adapter) RequireSession(c fiber.Ctx) error {
	user := a.auth.CurrentUser()
	if user == nil {
		return c.Status(http.StatusUnauthorized).JSON(map[string]string{
			"error": core.ErrNoSession.Error(),
		})
	}

	c.Locals("user", user)
	return c.Next()
}
