// internal/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusCreated, gin.H{
		"insertedId": user.ID,
		"user":       user,
	}, i18n.KeyUserCreated)
}

// GET /users/role/:email
func (h *UserHandler) GetRole(c *gin.Context) {
	role, err := h.userService.GetRole(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"role": role})
}

// GET /user/:email
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, user)
}

// PATCH /user/update/:email
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateUserProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, user, i18n.KeyUserProfileUpdated)
}
