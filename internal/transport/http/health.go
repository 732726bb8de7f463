package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"matchday/pkg/platform/httputil"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck is one backing service reported by /healthz.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, check := range checks {
			if err := check.Pinger.Ping(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "check", check.Name, "error", err)
				resp.Checks[check.Name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
