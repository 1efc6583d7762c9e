package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"academia/internal/application/orchestrators"
)

// handleLanding handles GET /. Discipline descriptions come from the backend
// and are rendered from markdown.
func handleLanding(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	disciplinas, err := backends.Master.ListDisciplinas(r.Context())
	if err != nil {
		// The marketing page still renders without the discipline list.
		slog.Error("landing_disciplinas_failed", "error", err.Error())
		disciplinas = nil
	}

	if !isHTMLRequest(r) {
		respondJSON(w, r, http.StatusOK, disciplinas)
		return
	}
	renderTemplate(w, r, "landing.html", map[string]any{
		"Disciplinas": disciplinas,
	})
}

// handleContactForm handles GET /contacto
func handleContactForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "contact.html", map[string]any{
		"CSRFToken": csrf.Token(r),
	})
}

// handleContactSubmit handles POST /contacto
func handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	input := orchestrators.ContactInput{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Name = r.FormValue("Nombre")
		input.Email = r.FormValue("Email")
		input.Message = r.FormValue("Mensaje")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	err := orchestrators.ExecuteContactEnquiry(r.Context(), input, orchestrators.ContactDeps{
		Sender: emailSender,
		From:   emailFromAddress,
		To:     contactToAddress,
	})
	if err != nil {
		renderTemplate(w, r, "contact.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Error":     "No pudimos enviar tu consulta. Revisá los datos e intentá de nuevo.",
			"Nombre":    input.Name,
			"Email":     input.Email,
			"Mensaje":   input.Message,
		})
		return
	}

	if isHTMLRequest(r) {
		renderTemplate(w, r, "contact.html", map[string]any{
			"CSRFToken": csrf.Token(r),
			"Sent":      true,
		})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard handles GET /admin
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "dashboard.html", nil)
}
