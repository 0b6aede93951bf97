// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /jwt
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req services.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, token)
}
