package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/utils"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("Health check failed")
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable", nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
