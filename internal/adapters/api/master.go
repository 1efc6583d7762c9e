package api

import (
	"context"
	"net/http"
)

// Disciplina is one row of GET /diciplinas. The path keeps the backend's
// historical misspelling; renaming it is a backend migration, not ours.
type Disciplina struct {
	ID          int64  `json:"id_disciplina"`
	Nombre      string `json:"nombre_disciplina"`
	Descripcion string `json:"descripcion"` // markdown, rendered on the public site
}

// Usuario is one row of GET /usuarios. Instructors are users with the
// "profesor" role.
type Usuario struct {
	ID     int64  `json:"id_usuario"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}

// MasterDataAPI fetches the picker lists the schedule editor needs.
type MasterDataAPI struct {
	c *Client
}

// NewMasterDataAPI creates the master-data adapter over a backend client.
func NewMasterDataAPI(c *Client) *MasterDataAPI {
	return &MasterDataAPI{c: c}
}

// ListDisciplinas fetches all disciplines.
func (a *MasterDataAPI) ListDisciplinas(ctx context.Context) ([]Disciplina, error) {
	var out []Disciplina
	if err := a.c.do(ctx, http.MethodGet, "/diciplinas", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsuarios fetches all users.
func (a *MasterDataAPI) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	var out []Usuario
	if err := a.c.do(ctx, http.MethodGet, "/usuarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInstructores fetches the users that can be assigned to a class.
func (a *MasterDataAPI) ListInstructores(ctx context.Context) ([]Usuario, error) {
	users, err := a.ListUsuarios(ctx)
	if err != nil {
		return nil, err
	}
	var out []Usuario
	for _, u := range users {
		if u.Rol == "profesor" || u.Rol == "admin" {
			out = append(out, u)
		}
	}
	return out, nil
}
