package payroll

import (
	"go-bizops/internal/company"
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	employees := r.Group("/company/employees/:userId")
	employees.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	{
		employees.POST("/pay-salary",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware(company.RoleOwner, company.RoleAdmin),
			middleware.Idempotency(rdb),
			handler.PaySalary,
		)
		employees.POST("/pay-bonus",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware(company.RoleOwner, company.RoleAdmin),
			middleware.Idempotency(rdb),
			handler.PayBonus,
		)
		employees.GET("/salary-history",
			middleware.RateLimitByUser(2, 5),
			handler.SalaryHistory,
		)
	}

	recurring := r.Group("/transactions")
	recurring.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	{
		recurring.POST("/generate-recurring",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RoleMiddleware(company.RoleOwner, company.RoleAdmin),
			middleware.Idempotency(rdb),
			handler.GenerateRecurring,
		)
	}
}
