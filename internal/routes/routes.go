package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/verifact-app/backend/internal/config"
	"github.com/verifact-app/backend/internal/features/activity"
	"github.com/verifact-app/backend/internal/features/auth"
	"github.com/verifact-app/backend/internal/features/bookmarks"
	"github.com/verifact-app/backend/internal/features/claims"
	"github.com/verifact-app/backend/internal/features/comments"
	"github.com/verifact-app/backend/internal/features/notifications"
	"github.com/verifact-app/backend/internal/features/reactions"
	"github.com/verifact-app/backend/internal/features/reports"
	"github.com/verifact-app/backend/internal/pkg/fcm"
	"github.com/verifact-app/backend/internal/pkg/logger"
	"github.com/verifact-app/backend/internal/realtime"
)

// SetupRoutes wires every feature under /api/v1 plus the websocket
// endpoint. The hub goroutine is started here; push delivery is added as
// a second transport when Firebase credentials are configured.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) *realtime.Hub {
	hub := realtime.NewHub()
	go hub.Run()

	transports := []notifications.Transport{&notifications.HubTransport{Hub: hub}}
	if cfg.FirebaseCredentials != "" {
		sender, err := fcm.NewService(context.Background(), cfg.FirebaseCredentials)
		if err != nil {
			logger.Warn("routes: push disabled, firebase init failed: %v", err)
		} else {
			transports = append(transports, &notifications.PushTransport{
				Sender: sender,
				Tokens: auth.NewRepository(db),
			})
		}
	}
	notifier := notifications.NewService(notifications.NewRepository(db), transports...)

	router.GET("/ws", realtime.ServeWS(hub))

	api := router.Group("/api/v1")

	auth.RegisterRoutes(api, db, cfg)
	claims.RegisterRoutes(api, db, cfg)
	reports.RegisterRoutes(api, db, cfg)
	comments.RegisterRoutes(api, db, cfg, notifier)
	reactions.RegisterRoutes(api, db, cfg, notifier)
	bookmarks.RegisterRoutes(api, db, cfg)
	notifications.RegisterRoutes(api, db, cfg)
	activity.RegisterRoutes(api, db, cfg)

	return hub
}
