package tax

import (
	"go-bizops/internal/company"
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	taxes := r.Group("/company/tax")
	taxes.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	{
		taxes.GET("/available-months",
			middleware.RateLimitByUser(2, 5),
			handler.AvailableMonths,
		)
		taxes.POST("/calculate",
			middleware.RateLimitByUser(2, 5),
			handler.Calculate,
		)
		taxes.POST("/pay",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware(company.RoleOwner, company.RoleAdmin),
			middleware.Idempotency(rdb),
			handler.Pay,
		)
	}
}
