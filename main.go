package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/leaderboard-api/app"
	"github.com/Black-And-White-Club/leaderboard-api/config"
	"github.com/Black-And-White-Club/leaderboard-api/pkg/observability"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	runErr := application.Start(ctx)
	if runErr != nil {
		application.Logger.Error("Application stopped with error", observability.ErrorAttr(runErr))
	}

	if err := application.Close(); err != nil {
		application.Logger.Error("Failed to release resources", observability.ErrorAttr(err))
	}
	application.Logger.Info("Application shut down gracefully")

	if runErr != nil {
		os.Exit(1)
	}
}
