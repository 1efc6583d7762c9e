package web

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"academia/internal/adapters/api"
	"academia/internal/application/listutil"
)

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// renderListPage applies paging to an already filtered and sorted slice and
// renders the list template (or JSON for API clients).
func renderListPage[T any](w http.ResponseWriter, r *http.Request, templateName string, items []T, lp listutil.ListParams, extra map[string]any) {
	pageInfo := listutil.NewPageInfo(lp.Page, lp.PerPage, len(items))
	page := listutil.Paginate(items, pageInfo)

	if !isHTMLRequest(r) {
		respondJSON(w, r, http.StatusOK, map[string]any{
			"Items":    page,
			"PageInfo": pageInfo,
		})
		return
	}

	data := map[string]any{
		"Items":          page,
		"PageInfo":       pageInfo,
		"Sort":           lp.Sort,
		"Dir":            lp.Dir,
		"Search":         lp.Search,
		"PerPageOptions": listutil.PerPageOptions,
	}
	for k, v := range extra {
		data[k] = v
	}
	renderTemplate(w, r, templateName, data)
}

// sortSlice orders items by the requested column using the provided key
// extractor. An empty sort column leaves backend order untouched.
func sortSlice[T any](items []T, lp listutil.ListParams, key func(T) string) {
	if lp.Sort == "" {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(key(items[i])), strings.ToLower(key(items[j]))
		if lp.Dir == "desc" {
			return a > b
		}
		return a < b
	})
}

// --- Alumnos ---

// handleAlumnos handles GET /admin/alumnos
func handleAlumnos(w http.ResponseWriter, r *http.Request) {
	alumnos, err := backends.Resources.ListAlumnos(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), []string{"nombre", "apellido", "email"}, nil)
	if lp.Search != "" {
		filtered := alumnos[:0:0]
		for _, a := range alumnos {
			if containsFold(a.Nombre, lp.Search) || containsFold(a.Apellido, lp.Search) || containsFold(a.Email, lp.Search) {
				filtered = append(filtered, a)
			}
		}
		alumnos = filtered
	}
	sortSlice(alumnos, lp, func(a api.Alumno) string {
		switch lp.Sort {
		case "apellido":
			return a.Apellido
		case "email":
			return a.Email
		default:
			return a.Nombre
		}
	})

	disciplinas, err := backends.Master.ListDisciplinas(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderListPage(w, r, "admin_alumnos.html", alumnos, lp, map[string]any{
		"Disciplinas": disciplinas,
	})
}

// handleSaveAlumno handles POST /admin/alumnos (create or edit)
func handleSaveAlumno(w http.ResponseWriter, r *http.Request) {
	alumno := api.Alumno{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		alumno.ID, _ = strconv.ParseInt(r.FormValue("ID"), 10, 64)
		alumno.Nombre = r.FormValue("Nombre")
		alumno.Apellido = r.FormValue("Apellido")
		alumno.Email = r.FormValue("Email")
		alumno.Telefono = r.FormValue("Telefono")
		alumno.FechaNacimiento = r.FormValue("FechaNacimiento")
		alumno.IDDisciplina, _ = strconv.ParseInt(r.FormValue("DisciplinaID"), 10, 64)
	} else {
		if err := strictDecode(r, &alumno); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if alumno.Nombre == "" {
		http.Error(w, "Nombre is required", http.StatusBadRequest)
		return
	}
	if err := backends.Resources.SaveAlumno(r.Context(), alumno); err != nil {
		backendError(w, r, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/alumnos", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteAlumno handles POST /admin/alumnos/{id}/eliminar
func handleDeleteAlumno(w http.ResponseWriter, r *http.Request) {
	deleteResource(w, r, backends.Resources.DeleteAlumno, "/admin/alumnos")
}

// --- Profesores ---

// handleProfesores handles GET /admin/profesores
func handleProfesores(w http.ResponseWriter, r *http.Request) {
	profesores, err := backends.Resources.ListProfesores(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), []string{"nombre", "email"}, nil)
	if lp.Search != "" {
		filtered := profesores[:0:0]
		for _, p := range profesores {
			if containsFold(p.Nombre, lp.Search) || containsFold(p.Email, lp.Search) {
				filtered = append(filtered, p)
			}
		}
		profesores = filtered
	}
	sortSlice(profesores, lp, func(p api.Profesor) string {
		if lp.Sort == "email" {
			return p.Email
		}
		return p.Nombre
	})

	renderListPage(w, r, "admin_profesores.html", profesores, lp, nil)
}

// handleSaveProfesor handles POST /admin/profesores
func handleSaveProfesor(w http.ResponseWriter, r *http.Request) {
	profesor := api.Profesor{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		profesor.ID, _ = strconv.ParseInt(r.FormValue("ID"), 10, 64)
		profesor.Nombre = r.FormValue("Nombre")
		profesor.Email = r.FormValue("Email")
		profesor.Telefono = r.FormValue("Telefono")
	} else {
		if err := strictDecode(r, &profesor); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if profesor.Nombre == "" {
		http.Error(w, "Nombre is required", http.StatusBadRequest)
		return
	}
	if err := backends.Resources.SaveProfesor(r.Context(), profesor); err != nil {
		backendError(w, r, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/profesores", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteProfesor handles POST /admin/profesores/{id}/eliminar
func handleDeleteProfesor(w http.ResponseWriter, r *http.Request) {
	deleteResource(w, r, backends.Resources.DeleteProfesor, "/admin/profesores")
}

// --- Disciplinas ---

// handleDisciplinas handles GET /admin/disciplinas. Disciplines are managed
// on the backend side; the dashboard only lists them.
func handleDisciplinas(w http.ResponseWriter, r *http.Request) {
	disciplinas, err := backends.Master.ListDisciplinas(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), []string{"nombre"}, nil)
	if lp.Search != "" {
		filtered := disciplinas[:0:0]
		for _, d := range disciplinas {
			if containsFold(d.Nombre, lp.Search) {
				filtered = append(filtered, d)
			}
		}
		disciplinas = filtered
	}
	sortSlice(disciplinas, lp, func(d api.Disciplina) string { return d.Nombre })

	renderListPage(w, r, "admin_disciplinas.html", disciplinas, lp, nil)
}

// --- Pagos ---

// handlePagos handles GET /admin/pagos
func handlePagos(w http.ResponseWriter, r *http.Request) {
	pagos, err := backends.Resources.ListPagos(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), []string{"fecha", "alumno"}, nil)
	if lp.Search != "" {
		filtered := pagos[:0:0]
		for _, p := range pagos {
			if containsFold(p.Alumno.Nombre, lp.Search) || containsFold(p.Alumno.Apellido, lp.Search) || containsFold(p.Metodo, lp.Search) {
				filtered = append(filtered, p)
			}
		}
		pagos = filtered
	}
	sortSlice(pagos, lp, func(p api.Pago) string {
		if lp.Sort == "alumno" {
			return p.Alumno.Apellido + " " + p.Alumno.Nombre
		}
		return p.FechaPago
	})

	alumnos, err := backends.Resources.ListAlumnos(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}
	renderListPage(w, r, "admin_pagos.html", pagos, lp, map[string]any{
		"Alumnos": alumnos,
	})
}

// handleSavePago handles POST /admin/pagos
func handleSavePago(w http.ResponseWriter, r *http.Request) {
	pago := api.Pago{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		pago.ID, _ = strconv.ParseInt(r.FormValue("ID"), 10, 64)
		pago.IDAlumno, _ = strconv.ParseInt(r.FormValue("AlumnoID"), 10, 64)
		pago.Monto, _ = strconv.ParseFloat(r.FormValue("Monto"), 64)
		pago.FechaPago = r.FormValue("FechaPago")
		pago.Metodo = r.FormValue("Metodo")
	} else {
		if err := strictDecode(r, &pago); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if pago.IDAlumno == 0 || pago.Monto <= 0 {
		http.Error(w, "AlumnoID and a positive Monto are required", http.StatusBadRequest)
		return
	}
	if pago.FechaPago == "" {
		pago.FechaPago = timeNow().Format("2006-01-02")
	}
	if err := backends.Resources.SavePago(r.Context(), pago); err != nil {
		backendError(w, r, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/pagos", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeletePago handles POST /admin/pagos/{id}/eliminar
func handleDeletePago(w http.ResponseWriter, r *http.Request) {
	deleteResource(w, r, backends.Resources.DeletePago, "/admin/pagos")
}

// --- Usuarios ---

// handleUsuarios handles GET /admin/usuarios (admin role only)
func handleUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := backends.Master.ListUsuarios(r.Context())
	if err != nil {
		backendError(w, r, err)
		return
	}

	lp := listutil.ParseListParams(r.URL.Query(), []string{"nombre", "email", "rol"}, nil)
	if lp.Search != "" {
		filtered := usuarios[:0:0]
		for _, u := range usuarios {
			if containsFold(u.Nombre, lp.Search) || containsFold(u.Email, lp.Search) {
				filtered = append(filtered, u)
			}
		}
		usuarios = filtered
	}
	sortSlice(usuarios, lp, func(u api.Usuario) string {
		switch lp.Sort {
		case "email":
			return u.Email
		case "rol":
			return u.Rol
		default:
			return u.Nombre
		}
	})

	renderListPage(w, r, "admin_usuarios.html", usuarios, lp, nil)
}

// handleSaveUsuario handles POST /admin/usuarios
func handleSaveUsuario(w http.ResponseWriter, r *http.Request) {
	usuario := api.Usuario{}

	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		usuario.ID, _ = strconv.ParseInt(r.FormValue("ID"), 10, 64)
		usuario.Nombre = r.FormValue("Nombre")
		usuario.Email = r.FormValue("Email")
		usuario.Rol = r.FormValue("Rol")
	} else {
		if err := strictDecode(r, &usuario); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	if usuario.Email == "" || usuario.Rol == "" {
		http.Error(w, "Email and Rol are required", http.StatusBadRequest)
		return
	}
	if err := backends.Resources.SaveUsuario(r.Context(), usuario); err != nil {
		backendError(w, r, err)
		return
	}

	if isHTMLRequest(r) {
		http.Redirect(w, r, "/admin/usuarios", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteUsuario handles POST /admin/usuarios/{id}/eliminar
func handleDeleteUsuario(w http.ResponseWriter, r *http.Request) {
	deleteResource(w, r, backends.Resources.DeleteUsuario, "/admin/usuarios")
}

// deleteResource runs the shared delete flow for the CRUD pages.
func deleteResource(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error, dest string) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if err := del(r.Context(), id); err != nil {
		backendError(w, r, err)
		return
	}
	if isHTMLRequest(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePerfSnapshot handles GET /admin/perf. Returns aggregated request and
// backend-call timings for the last 15 minutes.
func handlePerfSnapshot(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	since := timeNow().Add(-15 * time.Minute)
	respondJSON(w, r, http.StatusOK, perfCollector.Snapshot(since, 10))
}
