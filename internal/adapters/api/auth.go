package api

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginResult carries the backend token plus the identity claims extracted
// from it, enough to build a local session.
type LoginResult struct {
	Token     string
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// AuthAPI performs the backend login exchange.
type AuthAPI struct {
	c *Client
}

// NewAuthAPI creates the auth adapter over a backend client.
func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. The token is a JWT the
// backend signed; we only read its claims (name, role, expiry) without
// verifying the signature; verification is the backend's concern on every
// subsequent request.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	err := a.c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return LoginResult{}, err
	}

	result := LoginResult{Token: resp.Token, Email: email}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, claims); err == nil {
		if v, ok := claims["nombre"].(string); ok {
			result.Name = v
		}
		if v, ok := claims["rol"].(string); ok {
			result.Role = v
		}
		if v, ok := claims["email"].(string); ok {
			result.Email = v
		}
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			result.ExpiresAt = exp.Time
		}
	}
	return result, nil
}
