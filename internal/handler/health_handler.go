package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoteleria/reservation-engine/pkg/database"
	"github.com/hoteleria/reservation-engine/pkg/redis"
)

const readinessTimeout = 5 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redis.Client
}

func NewHealthHandler(db *database.PostgresDB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ReadyResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// prober is satisfied by the database and redis clients.
type prober interface {
	HealthCheck(ctx context.Context) error
}

func probe(ctx context.Context, p prober) (string, bool) {
	if err := p.HealthCheck(ctx); err != nil {
		return "unhealthy: " + err.Error(), false
	}
	return "healthy", true
}

// Health is the liveness probe. It answers as long as the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready is the readiness probe. It pings each backing store and reports
// per-component status. Redis is optional, so a missing client is reported
// but does not fail readiness.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	components := make(map[string]string)
	ready := true

	if h.db != nil {
		status, ok := probe(ctx, h.db)
		components["database"] = status
		ready = ready && ok
	} else {
		components["database"] = "not configured"
		ready = false
	}

	if h.redis != nil {
		status, _ := probe(ctx, h.redis)
		components["redis"] = status
	} else {
		components["redis"] = "not configured"
	}

	resp := ReadyResponse{
		Status:     "ready",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Components: components,
	}
	if !ready {
		resp.Status = "not ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
