package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeloom/nodeloom/pkg/cmd"
	"github.com/nodeloom/nodeloom/pkg/log"
	"github.com/nodeloom/nodeloom/pkg/web"
)

const defaultPort = 9101

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the document API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "storage-url",
				Usage:   "Storage URL (directory path, postgres:// or redis://)",
				Value:   "./data",
				Sources: cli.EnvVars("STORAGE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing NodeLoom API")

			registry := cmd.NewRegistry(logger)
			repository := cmd.NewRepository(ctx, logger, command.String("storage-url"))

			defer func() {
				if err := repository.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close repository", "error", err)
				}
			}()

			api := web.NewAPI(logger, repository, registry)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}
}
