package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"academia/internal/adapters/api"
	"academia/internal/adapters/http/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// backendError routes a failed backend call to the right response. A 401 from
// the backend means the stored bearer token is no longer valid: the session is
// torn down and the browser sent back to the login page.
func backendError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		slog.Warn("backend_unauthorized", "path", r.URL.Path)
		if token, ok := middleware.SessionToken(r); ok {
			if delErr := sessions.Delete(r.Context(), token); delErr != nil {
				slog.Error("session_delete_failed", "error", delErr.Error())
			}
		}
		middleware.ClearSessionCookie(w)
		if isHTMLRequest(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}
	internalError(w, err)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func isFormRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

// templatesDir can be overridden by tests running from another working directory.
var templatesDir = "internal/adapters/http/templates"

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	name := ""
	if ok {
		role = sess.Role
		name = sess.Name
	}

	funcMap := template.FuncMap{
		"currentRole": func() string { return role },
		"currentName": func() string { return name },
		"isLoggedIn":  func() bool { return role != "" },
		"isAdmin":     func() bool { return role == "admin" },
		"csrfToken":   func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"paginationQuery": func(page int, sort, dir, search string, perPage int) template.URL {
			q := fmt.Sprintf("page=%d", page)
			if sort != "" {
				q += "&sort=" + sort
			}
			if dir != "" {
				q += "&dir=" + dir
			}
			if search != "" {
				q += "&q=" + search
			}
			if perPage > 0 {
				q += fmt.Sprintf("&per_page=%d", perPage)
			}
			return template.URL(q)
		},
		"sortHeaderArgs": func(col, label, activeSort, activeDir, search string, perPage int) map[string]string {
			nextDir := "asc"
			if col == activeSort && activeDir == "asc" {
				nextDir = "desc"
			}
			return map[string]string{
				"Col": col, "Label": label,
				"ActiveSort": activeSort, "ActiveDir": activeDir, "NextDir": nextDir,
				"Search":  search,
				"PerPage": fmt.Sprintf("%d", perPage),
			}
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}
