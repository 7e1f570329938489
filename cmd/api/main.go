package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/myflix/internal/common/bootstrap"
	srv "github.com/AlibekovAA/myflix/internal/common/server"
)

func main() {
	app, err := bootstrap.NewApp(context.Background(), "api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}

	server := srv.NewServer(srv.NewServerConfig(app.Config.HTTPPort, app.Config.RequestTimeout), app.Handler)

	if err := srv.StartWithGracefulShutdown(server, app.Log, "api", app.ShutdownHooks()...); err != nil {
		app.Log.Fatalf("api service stopped with error: %v", err)
	}
}
