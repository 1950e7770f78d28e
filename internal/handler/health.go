package handler // HTTP handlers for the health and greeting endpoints

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/secret-greeter/internal/database"
	"github.com/iliyamo/secret-greeter/internal/metrics"
)

// HealthHandler verifies the shared pool on every request.
type HealthHandler struct {
	DB      *sql.DB
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func NewHealthHandler(db *sql.DB, timeout time.Duration, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{DB: db, Timeout: timeout, Logger: logger}
}

// Health runs the liveness query. It answers 200 "OK" when the query
// succeeds and 500 "Database error" for every failure, whether the pool is
// missing, unreachable or the query itself fails.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	if err := database.Ping(ctx, h.DB); err != nil {
		metrics.HealthChecks.WithLabelValues(metrics.ResultError).Inc()
		h.Logger.Warnw("health check failed", "error", err)
		return c.String(http.StatusInternalServerError, "Database error")
	}
	metrics.HealthChecks.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.String(http.StatusOK, "OK")
}
