package claims

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	handler := NewHandler(repo, auth.NewRepository(db), activity.NewRepository(db), NewScorer(cfg))

	authRequired := middleware.Auth(cfg)

	group := router.Group("/claims")
	{
		group.GET("", handler.GetAllClaims)
		group.GET("/latest", handler.GetLatestClaims)
		group.GET("/search", handler.SearchClaims)
		group.GET("/:id", handler.GetClaim)
		group.POST("", authRequired, handler.CreateClaim)
		group.PATCH("/:id", authRequired, handler.UpdateClaim)
		group.DELETE("/:id", authRequired, handler.DeleteClaim)
	}
}
