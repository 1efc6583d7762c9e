package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"academia/internal/adapters/api"
	"academia/internal/application/orchestrators"
)

// handleSaveHorario handles POST /admin/horarios (create or edit). Form
// submissions send the selected weekdays as repeated Dias values; JSON sends
// an array.
func handleSaveHorario(w http.ResponseWriter, r *http.Request) {
	isHTML := isHTMLRequest(r)

	input := orchestrators.SaveHorarioInput{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.ID = r.FormValue("ID")
		input.DisciplineID, _ = strconv.ParseInt(r.FormValue("DisciplinaID"), 10, 64)
		input.InstructorID, _ = strconv.ParseInt(r.FormValue("ProfesorID"), 10, 64)
		input.Weekdays = r.Form["Dias"]
		input.StartTime = r.FormValue("HoraInicio")
		input.EndTime = r.FormValue("HoraFin")
	} else {
		if err := strictDecode(r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	result, err := orchestrators.ExecuteSaveHorario(r.Context(), input, orchestrators.SaveHorarioDeps{
		Horarios: backends.Horarios,
	})
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			backendError(w, r, err)
			return
		}
		if len(result) == 0 {
			// Rejected before reaching the backend
			if isHTML {
				renderCalendar(w, r, true, map[string]any{
					"Error": "No pudimos guardar la clase. Revisá los datos del formulario e intentá de nuevo.",
				})
				return
			}
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		// Partial failure: fall through and report the failed weekdays.
	}

	failed := result.Failed()
	if isHTML {
		dest := "/admin/calendario"
		if len(failed) > 0 {
			dest += "?fallidos=" + url.QueryEscape(strings.Join(failed, ","))
		}
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}

	status := http.StatusCreated
	if input.ID != "" {
		status = http.StatusOK
	}
	if len(failed) > 0 {
		status = http.StatusMultiStatus
	}
	respondJSON(w, r, status, map[string]any{
		"Fallidos": failed,
		"Total":    len(result),
	})
}

// handleDeleteHorario handles DELETE /admin/horarios/{id} and the form
// fallback POST /admin/horarios/{id}/eliminar.
func handleDeleteHorario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := backends.Horarios.Delete(r.Context(), id); err != nil {
		backendError(w, r, err)
		return
	}
	slog.Info("horario_deleted", "id", id)

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/calendario", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
