package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything that can confirm its backing store is reachable.
// *pgxpool.Pool and *sqlite.DB both qualify.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether both stores answer.
type HealthHandler struct {
	identity Pinger
	app      Pinger
	logger   *slog.Logger
}

func NewHealthHandler(identity, app Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{identity: identity, app: app, logger: logger}
}

// HandleHealth pings the identity store, then the application store.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := []struct {
		name string
		p    Pinger
	}{
		{"identity", h.identity},
		{"application", h.app},
	}

	for _, c := range checks {
		if err := c.p.Ping(ctx); err != nil {
			h.logger.Warn("health check failed",
				slog.String("store", c.name),
				slog.String("error", err.Error()),
			)
			writeText(w, http.StatusServiceUnavailable, c.name+" store unavailable")
			return
		}
	}

	writeText(w, http.StatusOK, "ok")
}
