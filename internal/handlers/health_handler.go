package handlers

import (
	"net/http"

	"crm-backend/internal/cache"
	"crm-backend/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthHandler struct {
	DB *pgxpool.Pool
}

func NewHealthHandler(db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Health reports liveness plus the state of the backing services. Redis
// being down degrades the response but does not fail it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	if err := h.DB.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	redisStatus := "disabled"
	if c := cache.GetClient(); c != nil {
		redisStatus = "ok"
		if err := c.Ping(r.Context()).Err(); err != nil {
			redisStatus = "unreachable"
		}
	}

	code := http.StatusOK
	if dbStatus != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, map[string]string{
		"status": status,
		"db":     dbStatus,
		"redis":  redisStatus,
	})
}
