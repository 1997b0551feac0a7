package payroll

import (
	"net/http"

	"go-bizops/internal/middleware"
	"go-bizops/internal/shared/apperror"
	"go-bizops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func (h *Handler) PaySalary(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	userID := c.Param("userId")

	resp, err := h.service.PaySalary(c.Request.Context(), companyID, role, userID)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) PayBonus(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	userID := c.Param("userId")

	var req PayBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	resp, err := h.service.PayBonus(c.Request.Context(), companyID, role, userID, req)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) SalaryHistory(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")
	actorID := c.GetString("user_id")
	userID := c.Param("userId")

	resp, err := h.service.SalaryHistory(c.Request.Context(), companyID, role, actorID, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GenerateRecurring(c *gin.Context) {
	companyID := c.GetString("company_id")
	role := c.GetString("role")

	resp, err := h.service.GenerateMonthlyExpenses(c.Request.Context(), companyID, role)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusOK, resp, nil)
}
