package auth

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, db *mongo.Database, cfg *config.Config) {
	repo := NewRepository(db)
	handler := NewHandler(repo, cfg)

	authRequired := middleware.Auth(cfg)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
	}

	users := router.Group("/users")
	{
		users.GET("/:id", handler.GetUser)
		users.PATCH("/me", authRequired, handler.UpdateProfile)
		users.PATCH("/me/password", authRequired, handler.ChangePassword)
		users.POST("/me/devices", authRequired, handler.RegisterDevice)
		users.DELETE("/:id", authRequired, handler.DeleteUser)
	}
}
