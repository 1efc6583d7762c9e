package api

import (
	"context"
	"net/http"
	"strconv"
)

// The admin dashboard's plain CRUD pages are thin pass-throughs over the
// backend's resource endpoints. No business logic lives here.

// Alumno is a gym student.
type Alumno struct {
	ID              int64  `json:"id_alumno"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	FechaNacimiento string `json:"fecha_nacimiento"` // YYYY-MM-DD
	IDDisciplina    int64  `json:"id_disciplina"`
}

// Profesor is a gym instructor.
type Profesor struct {
	ID       int64  `json:"id_profesor"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
}

// Pago is one recorded payment.
type Pago struct {
	ID        int64   `json:"id_pago"`
	IDAlumno  int64   `json:"id_alumno"`
	Monto     float64 `json:"monto"`
	FechaPago string  `json:"fecha_pago"` // YYYY-MM-DD
	Metodo    string  `json:"metodo"`
	Alumno    struct {
		Nombre   string `json:"nombre"`
		Apellido string `json:"apellido"`
	} `json:"alumnos"`
}

// ResourceAPI mediates the CRUD pages for students, instructors and payments.
type ResourceAPI struct {
	c *Client
}

// NewResourceAPI creates the CRUD adapter over a backend client.
func NewResourceAPI(c *Client) *ResourceAPI {
	return &ResourceAPI{c: c}
}

func (a *ResourceAPI) ListAlumnos(ctx context.Context) ([]Alumno, error) {
	var out []Alumno
	if err := a.c.do(ctx, http.MethodGet, "/alumnos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ResourceAPI) SaveAlumno(ctx context.Context, alumno Alumno) error {
	if alumno.ID == 0 {
		return a.c.do(ctx, http.MethodPost, "/alumnos", alumno, nil)
	}
	return a.c.do(ctx, http.MethodPut, "/alumnos/"+strconv.FormatInt(alumno.ID, 10), alumno, nil)
}

func (a *ResourceAPI) DeleteAlumno(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/alumnos/"+id, nil, nil)
}

func (a *ResourceAPI) ListProfesores(ctx context.Context) ([]Profesor, error) {
	var out []Profesor
	if err := a.c.do(ctx, http.MethodGet, "/profesores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ResourceAPI) SaveProfesor(ctx context.Context, profesor Profesor) error {
	if profesor.ID == 0 {
		return a.c.do(ctx, http.MethodPost, "/profesores", profesor, nil)
	}
	return a.c.do(ctx, http.MethodPut, "/profesores/"+strconv.FormatInt(profesor.ID, 10), profesor, nil)
}

func (a *ResourceAPI) DeleteProfesor(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/profesores/"+id, nil, nil)
}

func (a *ResourceAPI) ListPagos(ctx context.Context) ([]Pago, error) {
	var out []Pago
	if err := a.c.do(ctx, http.MethodGet, "/pagos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *ResourceAPI) SavePago(ctx context.Context, pago Pago) error {
	if pago.ID == 0 {
		return a.c.do(ctx, http.MethodPost, "/pagos", pago, nil)
	}
	return a.c.do(ctx, http.MethodPut, "/pagos/"+strconv.FormatInt(pago.ID, 10), pago, nil)
}

func (a *ResourceAPI) DeletePago(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/pagos/"+id, nil, nil)
}

func (a *ResourceAPI) SaveUsuario(ctx context.Context, usuario Usuario) error {
	if usuario.ID == 0 {
		return a.c.do(ctx, http.MethodPost, "/usuarios", usuario, nil)
	}
	return a.c.do(ctx, http.MethodPut, "/usuarios/"+strconv.FormatInt(usuario.ID, 10), usuario, nil)
}

func (a *ResourceAPI) DeleteUsuario(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/usuarios/"+id, nil, nil)
}
