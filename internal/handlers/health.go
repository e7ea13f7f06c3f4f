package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jeremyjsx/quill/internal/events"
	"github.com/jeremyjsx/quill/internal/storage"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDeps lists what /health probes. Storage and RabbitMQURL are optional.
type HealthDeps struct {
	Store       Pinger
	Storage     storage.Storage
	RabbitMQURL string
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		if err := deps.Store.Ping(ctx); err != nil {
			checks["store"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["store"] = "ok"
		}

		if deps.Storage != nil {
			if _, err := deps.Storage.Exists(ctx, "__health__"); err != nil {
				checks["s3"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["s3"] = "ok"
			}
		} else {
			checks["s3"] = "skipped"
		}

		if deps.RabbitMQURL != "" {
			if err := events.Check(deps.RabbitMQURL); err != nil {
				checks["rabbitmq"] = "unhealthy"
				if status == "healthy" {
					status = "degraded"
				}
			} else {
				checks["rabbitmq"] = "ok"
			}
		} else {
			checks["rabbitmq"] = "skipped"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}
