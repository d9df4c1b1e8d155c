package httpserver

import (
	"net/http"

	appfailures "github.com/bryanwahyu/unit-monitor/internal/application/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
)

type failureRequest struct {
	Description string         `json:"falha_ocorrida" validate:"required,max=500"`
	Date        *failures.Date `json:"data_falha" validate:"required"`
	Active      *bool          `json:"ativa"`
	Note        *string        `json:"observacao"`
	UnitID      units.ID       `json:"unidade" validate:"required,gt=0"`
}

func (b *failureRequest) normalize() {
	b.Description = middleware.SanitizeString(b.Description)
}

func (b failureRequest) command() appfailures.FailureCommand {
	cmd := appfailures.FailureCommand{
		Description: b.Description,
		Active:      b.Active,
		UnitID:      b.UnitID,
	}
	if b.Date != nil {
		cmd.Date = *b.Date
	}
	if b.Note != nil {
		cmd.Note = *b.Note
	}
	return cmd
}

type failurePatchRequest struct {
	Description *string        `json:"falha_ocorrida" validate:"omitnil,min=1,max=500"`
	Date        *failures.Date `json:"data_falha"`
	Active      *bool          `json:"ativa"`
	Note        *string        `json:"observacao"`
	UnitID      *units.ID      `json:"unidade" validate:"omitnil,gt=0"`
}

func (b *failurePatchRequest) normalize() {
	if b.Description != nil {
		d := middleware.SanitizeString(*b.Description)
		b.Description = &d
	}
}

func (b failurePatchRequest) patch() appfailures.FailurePatch {
	return appfailures.FailurePatch{
		Description: b.Description,
		Date:        b.Date,
		Active:      b.Active,
		Note:        b.Note,
		UnitID:      b.UnitID,
	}
}

// GET /api/falhas/?unidade=&ativa=
func (r *Router) handleListFailures(w http.ResponseWriter, req *http.Request) error {
	var filter failures.Filter
	unit, ok, err := queryInt(req, "unidade")
	if err != nil {
		return err
	}
	if ok {
		id := units.ID(unit)
		filter.UnitID = &id
	}
	if filter.Active, err = queryBool(req, "ativa"); err != nil {
		return err
	}

	list, err := r.failuresSvc.List(req.Context(), filter)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, list)
}

// GET /api/falhas/detalhadas/?encerradas=true
func (r *Router) handleDetailedFailures(w http.ResponseWriter, req *http.Request) error {
	showClosed, err := queryBool(req, "encerradas")
	if err != nil {
		return err
	}
	list, err := r.failuresSvc.ListDetailed(req.Context(), showClosed != nil && *showClosed)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, list)
}

// POST /api/falhas/
func (r *Router) handleCreateFailure(w http.ResponseWriter, req *http.Request) error {
	var body failureRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	f, err := r.failuresSvc.Create(req.Context(), body.command())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusCreated, f)
}

// GET /api/falhas/{id}/
func (r *Router) handleGetFailure(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	f, err := r.failuresSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, f)
}

// PUT /api/falhas/{id}/
func (r *Router) handleUpdateFailure(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body failureRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	f, err := r.failuresSvc.Update(req.Context(), id, body.command())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, f)
}

// PATCH /api/falhas/{id}/
func (r *Router) handlePatchFailure(w http.ResponseWriter, req *http.Request) error {
	id, err := pathID(req)
	if err != nil {
		return err
	}
	var body failurePatchRequest
	if err := decode(w, req, &body); err != nil {
		return err
	}
	f, err := r.failuresSvc.Patch(req.Context(), id, body.patch())
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, f)
}
