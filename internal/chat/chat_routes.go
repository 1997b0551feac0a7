package chat

import (
	"go-bizops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	chats := r.Group("/chat")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.GET("",
			middleware.RateLimitByUser(2, 5),
			handler.List,
		)
		chats.POST("",
			middleware.RateLimitByUser(0.5, 3),
			handler.Send,
		)
		chats.GET("/:id/messages",
			middleware.RateLimitByUser(2, 5),
			handler.Messages,
		)
		chats.PATCH("/:id",
			middleware.RateLimitByUser(1, 2),
			handler.Rename,
		)
		chats.DELETE("/:id",
			middleware.RateLimitByUser(1, 2),
			handler.Delete,
		)
	}
}
