package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
	}
}

// GET /my-asset
func (h *AssignmentHandler) ListMyAssets(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	assets, total, err := h.assignmentService.ListMyAssets(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(assets, total, params))
}

// PATCH /asset/return/:id
func (h *AssignmentHandler) ReturnAsset(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.ReturnAsset(c.Request.Context(), email, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, assignment, i18n.KeyAssetReturned)
}
