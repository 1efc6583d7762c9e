package middleware

import (
	"context"
	"net/http"

	"academia/internal/adapters/api"
	sessionStore "academia/internal/adapters/storage/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

const sessionCookieName = "academia_session"

// SecureCookies controls the Secure flag on session cookies. Set to true in
// production.
var SecureCookies = false

// Auth returns middleware that resolves the session cookie against the store
// and, when valid, sets the session in context and injects its backend
// bearer token for the API client. It does NOT block unauthenticated
// requests; use RequireAuth or RequireAdmin for that.
func Auth(sessions sessionStore.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, err := sessions.Get(r.Context(), cookie.Value); err == nil {
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					ctx = api.WithToken(ctx, sess.BearerToken)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns middleware that blocks requests without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if sess.Role != "admin" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (sessionStore.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(sessionStore.Session)
	return sess, ok
}

// ContextWithSession returns a context carrying the given session and its
// bearer token. Intended for use in tests.
func ContextWithSession(ctx context.Context, sess sessionStore.Session) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return api.WithToken(ctx, sess.BearerToken)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken extracts the raw session cookie value from a request. Used by
// logout and unauthorized-response teardown to delete the stored session.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
