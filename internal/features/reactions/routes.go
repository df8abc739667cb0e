package reactions

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/comments"
	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, notifier *notifications.Service) {
	service := NewService(
		NewRepository(db),
		comments.NewRepository(db),
		targets.NewResolver(db),
		notifier,
		activity.NewRepository(db),
	)
	handler := NewHandler(service)

	authRequired := middleware.Auth(cfg)

	group := router.Group("/reactions")
	{
		group.POST("", authRequired, handler.SetReaction)
		group.POST("/toggle", authRequired, handler.ToggleReaction)
		group.GET("/counts/:targetType/:targetId", handler.GetCounts)
		group.GET("/user/:targetType/:targetId", authRequired, handler.GetUserReaction)
	}
}
