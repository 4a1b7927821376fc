package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/bootstrap"
	srv "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/server"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.NewAuthApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start auth service: %v\n", err)
		os.Exit(1)
	}

	server := srv.New(app.Config.HTTPPort, app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Infof("auth service: releasing database pool and broker connection")
			app.Close()
			return nil
		},
	}

	if err := srv.Run(ctx, server, app.Log, "auth", shutdownHooks); err != nil {
		app.Log.Fatalf("auth service stopped: %v", err)
	}
}
