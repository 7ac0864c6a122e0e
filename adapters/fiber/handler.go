package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/mavrk/authflow"
	"github.com/mavrk/authflow/core"
)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailInput struct {
	Email string `json:"email"`
}

type passwordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input credentialsInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}
	return writeResult(c, a.auth.SignUp(c.Context(), input.Email, input.Password), http.StatusCreated)
}

func (a *Adapter) signIn(c fiber.Ctx) error {
	var input credentialsInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}
	return writeResult(c, a.auth.LoginWithEmail(c.Context(), input.Email, input.Password), http.StatusOK)
}

func (a *Adapter) emailCheck(c fiber.Ctx) error {
	var input emailInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}
	return writeResult(c, a.auth.CheckEmailAvailability(c.Context(), input.Email), http.StatusOK)
}

func (a *Adapter) resetPassword(c fiber.Ctx) error {
	var input emailInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}
	if err := a.auth.ResetPassword(c.Context(), input.Email); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "password reset email sent",
	})
}

func (a *Adapter) signOut(c fiber.Ctx) error {
	if !a.auth.Logout(c.Context()) {
		return c.Status(http.StatusInternalServerError).JSON(map[string]string{
			"error": "sign-out failed",
		})
	}
	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "signed out successfully",
	})
}

func (a *Adapter) changePassword(c fiber.Ctx) error {
	var input passwordInput
	if err := c.Bind().Body(&input); err != nil {
		return badRequest(c)
	}

	// A password change re-verifies the old password first.
	user := a.auth.CurrentUser()
	if user == nil {
		return writeError(c, core.ErrNoSession)
	}
	if err := a.auth.Reauthenticate(c.Context(), user.Email, input.OldPassword); err != nil {
		return writeError(c, err)
	}
	if err := a.auth.ChangePassword(c.Context(), input.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "password updated",
	})
}

func (a *Adapter) token(c fiber.Ctx) error {
	token, err := a.auth.Token(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(map[string]string{"token": token})
}

func (a *Adapter) session(c fiber.Ctx) error {
	user := a.auth.CurrentUser()
	if user == nil {
		return writeError(c, core.ErrNoSession)
	}
	provider, _ := a.auth.AccountType()
	return c.Status(http.StatusOK).JSON(map[string]any{
		"user":     user,
		"provider": provider,
	})
}

func badRequest(c fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(map[string]string{
		"error": "invalid request body",
	})
}

// writeResult maps an authentication result onto an HTTP response.
func writeResult(c fiber.Ctx, res authflow.AuthResult, successStatus int) error {
	switch res.Kind {
	case core.ResultSuccess:
		return c.Status(successStatus).JSON(map[string]any{"user": res.User})

	case core.ResultPreflightSuccess:
		return c.Status(http.StatusOK).JSON(map[string]any{
			"email":     res.Email,
			"available": true,
		})

	case core.ResultNoAccount:
		return c.Status(http.StatusNotFound).JSON(map[string]string{
			"error": "no account for this email",
			"email": res.Email,
		})

	case core.ResultWrongProvider:
		return c.Status(http.StatusConflict).JSON(map[string]string{
			"error":        "account registered with another provider",
			"email":        res.Email,
			"use_provider": res.UseProvider.String(),
		})

	default:
		return writeError(c, res.Err)
	}
}

func writeError(c fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(map[string]string{
		"error": err.Error(),
	})
}

// statusFor maps authflow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrNoSession):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, core.ErrUserExists):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
