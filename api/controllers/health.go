package controllers

import (
	"net/http"

	"github.com/travelbookhq/travelbook-gateway/api/responses"
	"github.com/travelbookhq/travelbook-gateway/pkg/config"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	pkgredis "github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TravelBook-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, redisClient pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-TravelBook-Env", cfg.App.Env)

		deps := map[string]string{"redis": "ok"}
		healthy := true
		if redisClient == nil {
			deps["redis"] = "not configured"
			healthy = false
		} else if err := redisClient.Ping(ctx); err != nil {
			if logg != nil {
				logg.Error(ctx, "redis health check failed", err)
			}
			deps["redis"] = "unreachable"
			healthy = false
		}

		status := "ready"
		code := http.StatusOK
		if !healthy {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, code, map[string]any{"status": status, "deps": deps})
	}
}
