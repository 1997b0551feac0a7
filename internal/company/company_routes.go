package company

import (
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	company := r.Group("/company")
	company.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	{
		company.GET("",
			middleware.RateLimitByUser(2, 5),
			handler.Get,
		)
		company.PATCH("/settings",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RoleMiddleware(RoleOwner, RoleAdmin),
			handler.UpdateSettings,
		)
		company.POST("/regenerate-code",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RoleMiddleware(RoleOwner, RoleAdmin),
			handler.RegenerateInviteCode,
		)
		company.GET("/employees",
			middleware.RateLimitByUser(2, 5),
			handler.ListEmployees,
		)
		company.GET("/salary-summary",
			middleware.RateLimitByUser(2, 5),
			handler.SalarySummary,
		)
		company.PATCH("/employees/:userId",
			middleware.RateLimitByUser(1, 2),
			middleware.RoleMiddleware(RoleOwner, RoleAdmin),
			handler.UpdateEmployee,
		)
		company.DELETE("/employees/:userId",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RoleMiddleware(RoleOwner, RoleAdmin),
			handler.RemoveEmployee,
		)
	}
}
