// Package main provides the NodeLoom command-line interface.
package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "nodeloom",
		Usage:                 "Create, validate and serve agent pipeline documents",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			ServeCommand(),
			NewDocumentCommand(),
			ValidateCommand(),
			InspectCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
