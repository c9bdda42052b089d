package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker probes the health of a single dependency.
type Checker func(ctx context.Context) error

// Status is the reported health of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Response is the JSON body returned by the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
	Critical bool   `json:"critical"`
}

type registeredCheck struct {
	check    Checker
	critical bool
}

// Handler serves liveness and readiness endpoints over a set of registered
// dependency checks.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]registeredCheck
}

// NewHandler creates an empty health handler.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]registeredCheck)}
}

// RegisterCritical adds a check whose failure marks the service not ready.
func (h *Handler) RegisterCritical(name string, c Checker) {
	h.register(name, c, true)
}

// RegisterNonCritical adds a check that is reported but does not fail
// readiness on its own.
func (h *Handler) RegisterNonCritical(name string, c Checker) {
	h.register(name, c, false)
}

func (h *Handler) register(name string, c Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = registeredCheck{check: c, critical: critical}
}

// LivenessHandler always reports up while the process is running.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs all registered checks with a 5s timeout and returns
// 503 if any critical check fails.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		h.mu.RLock()
		checks := make(map[string]registeredCheck, len(h.checks))
		for name, c := range h.checks {
			checks[name] = c
		}
		h.mu.RUnlock()

		results := make(map[string]CheckResult, len(checks))
		overall := StatusUp

		for name, c := range checks {
			result := CheckResult{Status: StatusUp, Critical: c.critical}
			if err := c.check(ctx); err != nil {
				result.Status = StatusDown
				result.Error = err.Error()
				if c.critical {
					overall = StatusDown
				}
			}
			results[name] = result
		}

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}

		writeHealth(w, status, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    results,
		})
	}
}

func writeHealth(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
