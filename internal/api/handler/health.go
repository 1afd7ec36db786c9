package handler

import (
	"net/http"

	"github.com/mindmesh/mindmesh-api/internal/api/response"
	"github.com/mindmesh/mindmesh-api/internal/repository/mongo"
)

// HealthCheck handles the liveness probe
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "healthy"})
}

// ReadyCheck handles the readiness probe, verifying database connectivity
func ReadyCheck(db *mongo.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		response.OK(w, map[string]string{"status": "ready"})
	}
}
