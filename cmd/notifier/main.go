package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/bootstrap"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/messaging"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

func main() {
	app, err := bootstrap.NewNotifierApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start notifier: %v\n", err)
		os.Exit(1)
	}
	defer app.Events.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deliveries, err := app.Events.Consume(app.Config.UserEventsQueue, constants.MessagingConsumerPrefetch)
	if err != nil {
		app.Log.Fatalf("failed to consume %s: %v", app.Config.UserEventsQueue, err)
	}

	go func() {
		select {
		case amqpErr := <-app.Events.NotifyClose():
			app.Log.Errorf("rabbitmq connection closed: %v", amqpErr)
			stop()
		case <-ctx.Done():
		}
	}()

	app.Log.Infof("notifier consuming %s", app.Config.UserEventsQueue)
	messaging.Run(ctx, app.Config.UserEventsQueue, deliveries, handleRegistered(app.Log), app.Log)
	app.Log.Info("notifier stopped")
}

func handleRegistered(log *logger.Logger) messaging.Handler {
	return func(ctx context.Context, body []byte) error {
		var event userdomain.RegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("decode user.registered: %w", err)
		}
		if event.UserID == "" {
			return errors.New("user.registered without userId")
		}

		log.WithFields(ctx, logger.Fields{
			"user_id": event.UserID,
			"sap_id":  event.SapID,
			"action":  "user_registered_received",
		}).Infof("new user registered: %s", event.Email)
		return nil
	}
}
