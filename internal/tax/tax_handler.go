package tax

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

func (h *Handler) AvailableMonths(c *gin.Context) {
	companyID := c.GetString("company_id")

	months, err := h.service.AvailableMonths(c.Request.Context(), companyID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"months": months}, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), companyID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pay(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, err.Error(), nil)
		return
	}

	resp, err := h.service.Pay(c.Request.Context(), companyID, req)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}
