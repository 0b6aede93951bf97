package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /analytics/asset-types
func (h *AnalyticsHandler) AssetTypeSplit(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	counts, err := h.analyticsService.AssetTypeSplit(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, counts)
}

// GET /analytics/top-requested?limit=
func (h *AnalyticsHandler) TopRequested(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultTopRequested)))

	counts, err := h.analyticsService.TopRequested(c.Request.Context(), email, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, counts)
}
