package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/verifact-app/backend/internal/pkg/logger"
)

// Service wraps the Firebase Cloud Messaging client. It is optional: when no
// credentials are configured the API runs with the websocket channel only.
type Service struct {
	client *messaging.Client
}

func NewService(ctx context.Context, credentialsPath string) (*Service, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase messaging client: %w", err)
	}

	logger.Info("Firebase messaging client initialized")
	return &Service{client: client}, nil
}

// Send pushes a data message to the given device tokens. Failures on
// individual tokens are logged and ignored; push delivery is best-effort.
func (s *Service) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) {
	if len(tokens) == 0 {
		return
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	resp, err := s.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		logger.Error("fcm: multicast send failed: %v", err)
		return
	}
	if resp.FailureCount > 0 {
		logger.Warn("fcm: %d of %d device pushes failed", resp.FailureCount, len(tokens))
	}
}
