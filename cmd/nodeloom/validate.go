package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeloom/nodeloom/pkg/cmd"
	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/log"
	"github.com/nodeloom/nodeloom/pkg/validation"
)

func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Run the structural validator over a document file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 1 {
				return cli.Exit("expected exactly one document file", 2)
			}

			log.Setup(command.String("log-level"))

			logger := log.WithModule("cli")

			data, err := os.ReadFile(command.Args().First())
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			doc, err := document.Import(data)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			registry := cmd.NewRegistry(logger)
			result := validation.Validate(doc.Nodes, doc.Edges, registry)

			for _, issue := range result.Errors {
				fmt.Printf("error: %s: %s\n", issue.Kind, issue.Message)
			}

			for _, issue := range result.Warnings {
				fmt.Printf("warning: %s: %s\n", issue.Kind, issue.Message)
			}

			if !result.IsValid {
				return cli.Exit(fmt.Sprintf("%s is invalid", doc.Name), 1)
			}

			fmt.Printf("%s is valid (%d warnings)\n", doc.Name, len(result.Warnings))

			return nil
		},
	}
}
