package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/okulikov/handtext/internal/buildinfo"
	"github.com/okulikov/handtext/internal/logging"
	"github.com/okulikov/handtext/internal/recognizer"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	addr := flag.String("a", ":5000", "listen address")
	text := flag.String("x", "No text recognized.", "text returned for every valid upload")
	rps := flag.Float64("l", 10, "per-host request rate limit (requests per second, 0 disables)")
	burst := flag.Int("burst", 20, "rate limit burst")
	flag.Parse()

	logger := logging.NewText(os.Stderr, slog.LevelInfo)
	svc := recognizer.NewService(logger, *text, *rps, *burst)
	app := recognizer.NewApp(svc, *addr)

	if err := app.Run(context.Background()); err != nil && err != http.ErrServerClosed {
		log.Fatalf("%v", err)
	}
}
