package httpserver

import (
	"net/http"

	appunits "github.com/bryanwahyu/unit-monitor/internal/application/units"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
)

type unitRequest struct {
	Name       string `json:"nome_unidade" validate:"required,max=200"`
	Group      string `json:"grupo_unidade" validate:"required,max=100"`
	Technician string `json:"tecnico_unidade" validate:"max=200"`
	ExternalID string `json:"id_unidade" validate:"required,max=50"`
	Notes      string `json:"observacoes"`
}

func (b *unitRequest) normalize() {
	b.Name = middleware.SanitizeString(b.Name)
	b.Group = middleware.SanitizeString(b.Group)
	b.Technician = middleware.SanitizeString(b.Technician)
	b.ExternalID = middleware.SanitizeString(b.ExternalID)
}

func (b unitRequest) command() appunits.UnitCommand {
	return appunits.UnitCommand{
		Name:       b.Name,
		Group:      b.Group,
		Technician: b.Technician,
		ExternalID: b.ExternalID,
		Notes:      b.Notes,
	}
}

// GET /api/unidades/
func (r *Router) handleListUnits(w http.ResponseWriter, req *http.Request) error {
	list, err := r.unitsSvc.List(req.Context())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, list)
}

// POST /api/unidades/
func (r *Router) handleCreateUnit(w http.ResponseWriter, req *http.Request) error {
	var body unitRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	u, err := r.unitsSvc.Create(req.Context(), body.command())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusCreated, u)
}

// GET /api/unidades/{id}/
func (r *Router) handleGetUnit(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	u, err := r.unitsSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, u)
}

// PUT /api/unidades/{id}/
func (r *Router) handleUpdateUnit(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body unitRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	u, err := r.unitsSvc.Update(req.Context(), id, body.command())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, u)
}

// DELETE /api/unidades/{id}/
func (r *Router) handleDeleteUnit(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	res, err := r.unitsSvc.Delete(req.Context(), id)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, res)
}

// GET /api/unidades/{id}/falhas/
func (r *Router) handleUnitHistory(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	list, err := r.unitsSvc.History(req.Context(), id)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, list)
}
