package main

import (
	"context"
	"log"
	"os"

	"github.com/okulikov/handtext/internal/buildinfo"
	"github.com/okulikov/handtext/internal/client/cli"
	"github.com/okulikov/handtext/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
