package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"certbot/internal/delivery/http/helpers"
)

// StoreChecker verifies the participant store is reachable.
type StoreChecker interface {
	Check(ctx context.Context) (events int, err error)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

// StoreCheckResponse is the body of GET /test-db.
type StoreCheckResponse struct {
	Status string `json:"status"`
	Events int    `json:"events"`
}

type HealthController struct {
	Logger  *slog.Logger
	Store   StoreChecker
	started time.Time
	now     func() time.Time
}

func NewHealthController(logger *slog.Logger, store StoreChecker) *HealthController {
	return &HealthController{Logger: logger, Store: store, started: time.Now(), now: time.Now}
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status, timestamp and uptime seconds"
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	now := c.now()
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(c.started).Seconds(),
	})
}

// TestDB godoc
// @Summary Store connectivity check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status and event count"
// @Failure 503 {object} helpers.APIResponse "error.code: service_unavailable"
// @Router /test-db [get]
func (c *HealthController) TestDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	n, err := c.Store.Check(ctx)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "store check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "database unreachable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StoreCheckResponse{Status: "connected", Events: n})
}
