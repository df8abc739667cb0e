package comments

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config, notifier *notifications.Service) {
	repo := NewRepository(db)
	service := NewService(repo, targets.NewResolver(db), notifier)
	handler := NewHandler(repo, service, auth.NewRepository(db))

	authRequired := middleware.Auth(cfg)
	optionalAuth := middleware.OptionalAuth(cfg)

	group := router.Group("/comments")
	{
		group.GET("/:targetType/:targetId", optionalAuth, handler.GetCommentsByTarget)
		group.POST("", authRequired, handler.CreateComment)
		group.PATCH("/:commentId", authRequired, handler.UpdateComment)
		group.DELETE("/:commentId", authRequired, handler.DeleteComment)
		group.POST("/:commentId/like", authRequired, handler.ToggleLike)
		group.POST("/:commentId/dislike", authRequired, handler.ToggleDislike)
	}
}
