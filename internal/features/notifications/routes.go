package notifications

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	handler := NewHandler(repo, auth.NewRepository(db))

	authRequired := middleware.Auth(cfg)

	group := router.Group("/notifications", authRequired)
	{
		group.GET("", handler.GetNotifications)
		group.GET("/unread-count", handler.GetUnreadCount)
		group.PATCH("/:id/read", handler.MarkAsRead)
		group.PATCH("/read-all", handler.MarkAllAsRead)
	}
}
