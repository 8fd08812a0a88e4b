package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version is the application version reported by the health endpoint.
const Version = "1.0.0"

// HealthResponse is the payload for GET /api/healthz.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// HealthCheck handles GET /api/healthz. The pipeline holds no state and no
// connections, so liveness is the only meaningful signal.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		Version: Version,
		Time:    time.Now().UTC(),
	})
}
