package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
)

const maxBodyBytes = 1 << 20

func pathID(req *http.Request) (int64, error) {
	raw := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// normalizer is implemented by bodies that clean their fields before validation.
type normalizer interface {
	normalize()
}

// decode reads a JSON body into v, normalizes it and runs its validate tags.
func decode(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	if n, ok := v.(normalizer); ok {
		n.normalize()
	}
	return middleware.Validate(v)
}

func queryInt(req *http.Request, key string) (int, bool, error) {
	raw := strings.TrimSpace(req.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, middleware.Invalid(key, "numeric")
	}
	return n, true, nil
}

func queryBool(req *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(req.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, middleware.Invalid(key, "boolean")
	}
	return &b, nil
}

// period reads ?mes=&ano=; a missing part falls back to the current month.
func (r *Router) period(req *http.Request) (dashboard.Period, error) {
	current := r.dashboardSvc.CurrentPeriod()
	month, okMonth, err := queryInt(req, "mes")
	if err != nil {
		return dashboard.Period{}, fmt.Errorf("%w: mes must be a number", dashboard.ErrInvalidPeriod)
	}
	year, okYear, err := queryInt(req, "ano")
	if err != nil {
		return dashboard.Period{}, fmt.Errorf("%w: ano must be a number", dashboard.ErrInvalidPeriod)
	}
	if !okMonth {
		month = int(current.Month)
	}
	if !okYear {
		year = current.Year
	}
	return dashboard.NewPeriod(month, year)
}
