package web

import (
	"net/http"
	"strings"
	"time"

	"academia/internal/application/projections"
	"academia/internal/domain/horario"
	"academia/internal/domain/timegrid"
)

// parseCalendarQuery reads the calendar view parameters. "fecha" picks the
// reference date (defaults to today), "vista" the mode (semana or dia).
func parseCalendarQuery(r *http.Request) projections.GetCalendarQuery {
	now := timeNow()
	reference := now
	if f := r.URL.Query().Get("fecha"); f != "" {
		// Local zone, so the today highlight compares wall-clock dates.
		if t, err := time.ParseInLocation("2006-01-02", f, time.Local); err == nil {
			reference = t
		}
	}
	mode := projections.ModeWeek
	if r.URL.Query().Get("vista") == "dia" {
		mode = projections.ModeDay
	}
	return projections.GetCalendarQuery{
		Reference: reference,
		Mode:      mode,
		Now:       now,
	}
}

// findEvent looks up one placed event by id across the rendered columns.
func findEvent(result projections.CalendarResult, id string) (horario.ClassEvent, bool) {
	for _, col := range result.Columns {
		for _, ev := range col.Events {
			if ev.Event.ID == id {
				return ev.Event, true
			}
		}
	}
	return horario.ClassEvent{}, false
}

// renderCalendar runs the calendar projection and renders it either as HTML
// or JSON. The admin flag selects the template with the editor controls;
// extra entries (flash messages, sticky form values) are merged into the
// template data.
func renderCalendar(w http.ResponseWriter, r *http.Request, admin bool, extra map[string]any) {
	query := parseCalendarQuery(r)
	deps := projections.GetCalendarDeps{
		Schedule: backends.Horarios,
		Grid:     timegrid.DefaultConfig(),
	}

	result, err := projections.QueryGetCalendar(r.Context(), query, deps)
	if err != nil {
		backendError(w, r, err)
		return
	}

	if !isHTMLRequest(r) {
		respondJSON(w, r, http.StatusOK, result)
		return
	}

	data := map[string]any{
		"Calendar":  result,
		"Reference": query.Reference.Format("2006-01-02"),
		"PrevWeek":  query.Reference.AddDate(0, 0, -7).Format("2006-01-02"),
		"NextWeek":  query.Reference.AddDate(0, 0, 7).Format("2006-01-02"),
		"Vista":     r.URL.Query().Get("vista"),
	}
	if f := r.URL.Query().Get("fallidos"); f != "" {
		data["Fallidos"] = strings.Split(f, ",")
	}
	for k, v := range extra {
		data[k] = v
	}

	if !admin {
		renderTemplate(w, r, "public_calendar.html", data)
		return
	}

	// The editor needs the discipline and instructor pickers.
	disciplinas, err := backends.Master.ListDisciplinas(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}
	instructores, err := backends.Master.ListInstructores(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}
	data["Disciplinas"] = disciplinas
	data["Instructores"] = instructores

	// ?editar= switches the editor into edit mode, prefilled from the event
	// already placed on the grid. An id that matches nothing (deleted in
	// another tab) falls back to the blank create form.
	if id := r.URL.Query().Get("editar"); id != "" {
		if event, ok := findEvent(result, id); ok {
			data["Editor"] = event
		}
	}

	renderTemplate(w, r, "admin_calendar.html", data)
}

// handlePublicCalendar handles GET /horarios
func handlePublicCalendar(w http.ResponseWriter, r *http.Request) {
	renderCalendar(w, r, false, nil)
}

// handleAdminCalendar handles GET /admin/calendario
func handleAdminCalendar(w http.ResponseWriter, r *http.Request) {
	renderCalendar(w, r, true, nil)
}
