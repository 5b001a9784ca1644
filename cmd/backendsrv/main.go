package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/okulikov/handtext/internal/backendsrv"
	"github.com/okulikov/handtext/internal/backendsrv/config"
	"github.com/okulikov/handtext/internal/buildinfo"
	"github.com/okulikov/handtext/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, slog.LevelInfo)

	app, err := backendsrv.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatalf("%v", err)
	}
}
