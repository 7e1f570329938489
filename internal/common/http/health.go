package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/myflix/internal/common/logger"
)

// Pinger is satisfied by *pgxpool.Pool and the catalog cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessHandler reports 503 until every dependency answers a ping.
func ReadinessHandler(log *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				log.WithFields(ctx, logger.Fields{
					"dependency": name,
					"action":     "readiness_check",
				}).Warnf("dependency not ready: %v", err)
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		WriteJSON(w, status, checks)
	}
}
