package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/bakeout-livesync/cmd"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=./gen/config.yaml ./gen/api.yaml

func main() {
	app := &cli.App{
		Name:   "bakeout-livesync",
		Usage:  "keeps a bakeout display in sync with the device over websocket or polling",
		Action: cmd.LiveSyncCommand,
		Flags:  cmd.Flags(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
