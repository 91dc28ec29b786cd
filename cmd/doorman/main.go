package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/doorman/cmd/doorman/serve"
	"github.com/andrebq/doorman/cmd/doorman/user"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "doorman",
		Usage: "Decide who gets past your HTTP API",
		Commands: []*cli.Command{
			serve.Cmd(),
			user.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
