package httpserver

import (
	"errors"
	"net/http"

	"github.com/bryanwahyu/unit-monitor/internal/domain/ai"
	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/domain/failures"
	"github.com/bryanwahyu/unit-monitor/internal/domain/menu"
	"github.com/bryanwahyu/unit-monitor/internal/domain/units"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
	"github.com/bryanwahyu/unit-monitor/internal/pkg/logger"
)

// errBadRequest marks malformed input (bad JSON, non-numeric ids).
var errBadRequest = errors.New("bad request")

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{units.ErrNotFound, http.StatusNotFound, "not_found"},
	{failures.ErrNotFound, http.StatusNotFound, "not_found"},
	{menu.ErrNotFound, http.StatusNotFound, "not_found"},
	{units.ErrDuplicateExternalID, http.StatusConflict, "duplicate_id_unidade"},
	{failures.ErrUnknownUnit, http.StatusBadRequest, "unknown_unit"},
	{dashboard.ErrInvalidPeriod, http.StatusBadRequest, "invalid_period"},
	{dashboard.ErrInvalidSubset, http.StatusBadRequest, "invalid_subset"},
	{dashboard.ErrExportDisabled, http.StatusNotImplemented, "export_disabled"},
	{dashboard.ErrDigestDisabled, http.StatusNotImplemented, "digest_disabled"},
	{ai.ErrQuotaExceeded, http.StatusTooManyRequests, "ai_quota_exceeded"},
	{errBadRequest, http.StatusBadRequest, "bad_request"},
}

func writeError(w http.ResponseWriter, req *http.Request, err error) {
	var verr *middleware.ValidationError
	if errors.As(err, &verr) {
		_ = middleware.WriteJSON(w, http.StatusBadRequest, middleware.ErrorResponse{
			Message: verr.Error(),
			Code:    "validation_error",
			Fields:  verr.Fields,
		})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= http.StatusInternalServerError || m.status == http.StatusTooManyRequests {
				logger.Warnf(req.Context(), "%s %s: %v", req.Method, req.URL.Path, err)
			}
			middleware.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	logger.Errorf(req.Context(), "%s %s: %v", req.Method, req.URL.Path, err)
	middleware.WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
