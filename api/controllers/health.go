package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/pawwelfare/shelter-backend/api/responses"
	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/db"
	pkgerrors "github.com/pawwelfare/shelter-backend/pkg/errors"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
	"github.com/pawwelfare/shelter-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PawWelfare-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the backing stores.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PawWelfare-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		ready := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["postgres"] = err.Error()
				ready = false
			} else {
				checks["postgres"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = err.Error()
				ready = false
			} else {
				checks["redis"] = "ok"
			}
		}

		if !ready {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
