package activity

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/middleware"
	"github.com/verifact-app/backend/internal/pkg/targets"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	authRepo := auth.NewRepository(db)
	resolver := targets.NewResolver(db)
	handler := NewHandler(repo, authRepo, resolver)

	authRequired := middleware.Auth(cfg)

	activities := router.Group("/activities")
	{
		activities.GET("/user/:userId", authRequired, handler.GetUserActivities)
		activities.GET("/user/:userId/range", authRequired, handler.GetActivitiesByDateRange)
	}
}
