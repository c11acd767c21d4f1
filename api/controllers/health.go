package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/SafinArnob/E-Shop-Management-System/api/responses"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/config"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/db"
	pkgerrors "github.com/SafinArnob/E-Shop-Management-System/pkg/errors"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/logger"
	"github.com/SafinArnob/E-Shop-Management-System/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EShop-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports the aggregate.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-EShop-Env", cfg.App.Env)

		checks := map[string]string{}
		var failures error

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["database"] = "down"
				failures = multierr.Append(failures, err)
			} else {
				checks["database"] = "up"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "down"
				failures = multierr.Append(failures, err)
			} else {
				checks["redis"] = "up"
			}
		}

		if failures != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
