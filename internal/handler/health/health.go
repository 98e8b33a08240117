// Package health reports whether the table host can serve games.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

type Handler struct {
	checks map[string]Checker
	gauges map[string]func() int
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, gauges: make(map[string]func() int), logger: logger}
}

// Gauge adds a numeric reading, such as the number of hosted games, to
// every report.
func (h *Handler) Gauge(name string, fn func() int) *Handler {
	h.gauges[name] = fn
	return h
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type result struct {
	Status string `json:"status"`
}

// Report is the body of every health response.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]result `json:"checks"`
	Gauges map[string]int    `json:"gauges,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	report := Report{Status: "ok", Checks: make(map[string]result, len(h.checks))}
	status := http.StatusOK

	for name, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Error("health check failed", "name", name, "error", err)
			report.Checks[name] = result{Status: "error"}
			report.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		report.Checks[name] = result{Status: "ok"}
	}

	if len(h.gauges) > 0 {
		report.Gauges = make(map[string]int, len(h.gauges))
		for name, fn := range h.gauges {
			report.Gauges[name] = fn()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(report)
}
