package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/middleware"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// POST /request
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	employee, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.SubmitRequestRequest
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.requestService.SubmitRequest(c.Request.Context(), employee, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusCreated, gin.H{
		"insertedId": request.ID,
		"request":    request,
	}, i18n.KeyRequestCreated)
}

// GET /request
func (h *RequestHandler) ListRequests(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	requests, total, err := h.requestService.ListRequests(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /my-requests
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	requests, total, err := h.requestService.ListMyRequests(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// PATCH /request/approve/:id
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	hr, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ApproveRequestRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.requestService.ApproveRequest(c.Request.Context(), hr, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, result, i18n.KeyRequestApproved)
}

// PATCH /request/reject/:id
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	result, err := h.requestService.RejectRequest(c.Request.Context(), email, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, result, i18n.KeyRequestRejected)
}
