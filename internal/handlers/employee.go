package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// GET /employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	employees, err := h.employeeService.ListEmployees(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, employees)
}

// GET /employees/stats
func (h *EmployeeHandler) Stats(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	stats, err := h.employeeService.Stats(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// PATCH /employees/remove/:id
func (h *EmployeeHandler) RemoveEmployee(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	result, err := h.employeeService.RemoveEmployee(c.Request.Context(), email, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessMessageResponse(c, http.StatusOK, result, i18n.KeyEmployeeRemoved)
}

// GET /myTeam/companies
func (h *EmployeeHandler) ListTeamCompanies(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	companies, err := h.employeeService.ListTeamCompanies(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, companies)
}

// GET /myTeam/list?company=
func (h *EmployeeHandler) ListTeam(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	team, err := h.employeeService.ListTeam(c.Request.Context(), email, strings.TrimSpace(c.Query("company")))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, team)
}
