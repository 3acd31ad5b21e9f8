package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/adewalecodes/buildbazaar-backend/api/responses"
	"github.com/adewalecodes/buildbazaar-backend/pkg/config"
	pkgerrors "github.com/adewalecodes/buildbazaar-backend/pkg/errors"
	"github.com/adewalecodes/buildbazaar-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is the dependency health surface checked by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BuildBazaar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BuildBazaar-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		for name, pinger := range map[string]Pinger{"database": dbP, "redis": redisP} {
			if pinger == nil {
				checks[name] = "skipped"
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				checks[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, name+" readiness check failed", err)
				}
				continue
			}
			checks[name] = "up"
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
