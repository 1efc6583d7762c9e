package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"academia/internal/adapters/api"
)

// AuthBackend defines the backend surface Login needs.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Auth AuthBackend
}

var ErrInvalidCredentials = errors.New("correo o contraseña incorrectos")

// ExecuteLogin exchanges credentials with the backend and returns the session
// material. Credential verification is entirely the backend's job; a 401 maps
// to ErrInvalidCredentials.
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (api.LoginResult, error) {
	if err := validate.Struct(input); err != nil {
		return api.LoginResult{}, ErrInvalidCredentials
	}

	result, err := deps.Auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			slog.Info("auth_event", "event", "login_failed", "email", input.Email)
			return api.LoginResult{}, ErrInvalidCredentials
		}
		slog.Error("auth_event", "event", "login_error", "email", input.Email, "error", err.Error())
		return api.LoginResult{}, err
	}

	slog.Info("auth_event", "event", "login_success", "email", result.Email, "role", result.Role)
	return result, nil
}
