package httpserver

import (
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bryanwahyu/unit-monitor/internal/domain/dashboard"
	"github.com/bryanwahyu/unit-monitor/internal/middleware"
)

// count bumps one of the dashboard counters when metrics are enabled.
func (r *Router) count(pick func(*middleware.Metrics) *prometheus.CounterVec, err error) {
	if r.metrics == nil {
		return
	}
	pick(r.metrics).WithLabelValues(middleware.Result(err)).Inc()
}

func reports(m *middleware.Metrics) *prometheus.CounterVec { return m.ReportsTotal }
func exports(m *middleware.Metrics) *prometheus.CounterVec { return m.ExportsTotal }
func digests(m *middleware.Metrics) *prometheus.CounterVec { return m.DigestsTotal }

// GET /api/dashboard/?mes=&ano=
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	p, err := r.period(req)
	if err != nil {
		return err
	}
	report, err := r.dashboardSvc.Report(req.Context(), p)
	r.count(reports, err)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, report)
}

// GET /api/dashboard/falhas/?mes=&ano=&tipo=&page=&page_size=
func (r *Router) handleDashboardDetails(w http.ResponseWriter, req *http.Request) error {
	p, err := r.period(req)
	if err != nil {
		return err
	}
	kind, err := dashboard.ParseSubset(req.URL.Query().Get("tipo"))
	if err != nil {
		return err
	}
	page, _, err := queryInt(req, "page")
	if err != nil {
		return err
	}
	size, sizeSet, err := queryInt(req, "page_size")
	if err != nil {
		return err
	}
	if sizeSet && !slices.Contains(dashboard.PageSizes, size) {
		return middleware.Invalid("page_size", "oneof")
	}

	result, err := r.dashboardSvc.Details(req.Context(), p, kind,
		middleware.ValidatePage(page), middleware.ValidatePageSize(size))
	r.count(reports, err)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, result)
}

// POST /api/dashboard/exportar/?mes=&ano=
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	p, err := r.period(req)
	if err != nil {
		return err
	}
	res, err := r.dashboardSvc.Export(req.Context(), p)
	r.count(exports, err)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusCreated, res)
}

// POST /api/dashboard/resumo/?mes=&ano=
func (r *Router) handleDigest(w http.ResponseWriter, req *http.Request) error {
	p, err := r.period(req)
	if err != nil {
		return err
	}
	res, err := r.dashboardSvc.Digest(req.Context(), p)
	r.count(digests, err)
	if err != nil {
		return err
	}
	return middleware.WriteJSON(w, http.StatusOK, res)
}
