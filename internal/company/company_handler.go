package company

import (
	"net/http"

	"go-bizops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.UpdateSettings(c.Request.Context(), companyID, role, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RegenerateInviteCode(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")

	resp, err := h.service.RegenerateInviteCode(c.Request.Context(), companyID, role)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListEmployees(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.ListEmployees(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	userID := c.Param("userId")

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.UpdateEmployee(c.Request.Context(), companyID, userID, role, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RemoveEmployee(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	userID := c.Param("userId")

	if err := h.service.RemoveEmployee(c.Request.Context(), companyID, userID, role); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true}, nil)
}

func (h *Handler) SalarySummary(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.SalarySummary(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
