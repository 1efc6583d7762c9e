package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"academia/internal/adapters/http/middleware"
	sessionStore "academia/internal/adapters/storage/session"
	"academia/internal/application/orchestrators"
)

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// If already logged in, go straight to the dashboard
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{
			"CSRFToken": csrf.Token(r),
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Email:    r.FormValue("Email"),
		Password: r.FormValue("Password"),
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
		Auth: backends.Auth,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidCredentials) {
			renderTemplate(w, r, "login.html", map[string]any{
				"CSRFToken": csrf.Token(r),
				"Error":     err.Error(),
			})
			return
		}
		internalError(w, err)
		return
	}

	now := timeNow()
	expiresAt := now.Add(sessionTTL)
	if !result.ExpiresAt.IsZero() && result.ExpiresAt.Before(expiresAt) {
		// Never outlive the backend token
		expiresAt = result.ExpiresAt
	}

	token, err := sessionStore.NewToken()
	if err != nil {
		internalError(w, err)
		return
	}
	sess := sessionStore.Session{
		BearerToken: result.Token,
		Name:        result.Name,
		Email:       result.Email,
		Role:        result.Role,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := sessions.Save(r.Context(), token, sess); err != nil {
		internalError(w, err)
		return
	}

	middleware.SetSessionCookie(w, token, int(expiresAt.Sub(now).Seconds()))
	slog.Info("auth_event", "event", "login", "email", result.Email, "role", result.Role)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.SessionToken(r); ok {
		if err := sessions.Delete(r.Context(), token); err != nil {
			slog.Error("session_delete_failed", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(w)
	slog.Info("auth_event", "event", "logout")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
