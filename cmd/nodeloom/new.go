package main

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeloom/nodeloom/pkg/cmd"
	"github.com/nodeloom/nodeloom/pkg/log"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"github.com/nodeloom/nodeloom/pkg/services"
)

func NewDocumentCommand() *cli.Command {
	return &cli.Command{
		Name:    "new",
		Aliases: []string{"n"},
		Usage:   "Create an empty pipeline document in storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Document name",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "storage-url",
				Usage:   "Storage URL (directory path, postgres:// or redis://)",
				Value:   "./data",
				Sources: cli.EnvVars("STORAGE_URL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export spans for persistence operations",
				Sources: cli.EnvVars("TRACING_ENABLED"),
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

			logger := log.WithModule("cli")

			registry := cmd.NewRegistry(logger)
			repository := cmd.NewRepository(ctx, logger, command.String("storage-url"))

			defer func() {
				if err := repository.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close repository", "error", err)
				}
			}()

			opts := []services.EditorOption{services.WithRepository(repository)}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "nodeloom-cli")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				opts = append(opts, services.WithTracer(tracer))
			}

			editor := services.NewEditor(logger, registry, opts...)
			doc := editor.NewDocument(command.String("name"))

			if err := editor.Save(ctx); err != nil {
				return err
			}

			fmt.Printf("Created document %s (%s)\n", doc.Name, doc.ID)

			return nil
		},
	}
}
