package http

import (
	"context"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	switch {
	case s.ledger == nil:
		checks["store"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	case s.ready != nil:
		if err := s.ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", "error", err)
			checks["store"] = "failed"
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	default:
		checks["store"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleDashboard returns the snapshot for ?year=&month=, defaulting to the
// current month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p := ParseMonthParams(r.URL.Query(), s.now())
	d, err := s.ledger.Dashboard(r.Context(), p.Year, p.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardView(d))
}
