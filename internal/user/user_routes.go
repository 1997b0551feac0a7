package user

import (
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/user")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/profile",
			middleware.RateLimitByUser(2, 5),
			handler.GetProfile,
		)
		users.PATCH("/profile",
			middleware.RateLimitByUser(1, 2),
			handler.UpdateProfile,
		)
	}
}
