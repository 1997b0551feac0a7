package transaction

import (
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	transactions := r.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(), middleware.RequireCompany())
	{
		transactions.GET("",
			middleware.RateLimitByUser(5, 10),
			handler.List,
		)
		transactions.POST("",
			middleware.RateLimitByUser(2, 5),
			handler.Create,
		)
		transactions.POST("/archive",
			middleware.RateLimitByUser(1, 2),
			handler.Archive,
		)
		transactions.DELETE("/:id",
			middleware.RateLimitByUser(1, 2),
			handler.Delete,
		)
	}
}
