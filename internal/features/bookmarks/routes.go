package bookmarks

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/comments"
	"github.com/verifact-app/backend/internal/features/reactions"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	service := NewService(repo, comments.NewRepository(db), reactions.NewRepository(db))
	handler := NewHandler(repo, service, targets.NewResolver(db), activity.NewRepository(db))

	authRequired := middleware.Auth(cfg)

	bookmarkGroup := router.Group("/bookmarks", authRequired)
	{
		bookmarkGroup.POST("", handler.CreateBookmark)
		bookmarkGroup.DELETE("/:id", handler.DeleteBookmark)
		bookmarkGroup.PATCH("/:id/collection", handler.AssignCollection)
		bookmarkGroup.GET("/user/:userId", handler.GetUserBookmarks)
	}

	collectionGroup := router.Group("/collections", authRequired)
	{
		collectionGroup.POST("", handler.CreateCollection)
		collectionGroup.GET("", handler.GetCollections)
		collectionGroup.PATCH("/:id", handler.UpdateCollection)
		collectionGroup.DELETE("/:id", handler.DeleteCollection)
	}
}
