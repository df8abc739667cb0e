package reports

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/features/claims"
	"github.com/verifact-app/backend/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	handler := NewHandler(repo, auth.NewRepository(db), claims.NewRepository(db), activity.NewRepository(db))

	authRequired := middleware.Auth(cfg)

	group := router.Group("/reports")
	{
		group.GET("", handler.GetAllReports)
		group.GET("/search", handler.SearchReports)
		group.GET("/:id", handler.GetReport)
		group.POST("", authRequired, handler.CreateReport)
		group.PATCH("/:id", authRequired, handler.UpdateReport)
		group.DELETE("/:id", authRequired, handler.DeleteReport)
	}
}
