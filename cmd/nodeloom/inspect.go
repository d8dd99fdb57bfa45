package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	cli "github.com/urfave/cli/v3"

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/models"
)

func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "Print a summary of a document file",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, command *cli.Command) error {
			if command.Args().Len() != 1 {
				return cli.Exit("expected exactly one document file", 2)
			}

			data, err := os.ReadFile(command.Args().First())
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			doc, err := document.Import(data)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			fmt.Printf("Name:    %s\n", doc.Name)
			fmt.Printf("ID:      %s\n", doc.ID)
			fmt.Printf("Version: %s\n", doc.Version)
			fmt.Printf("Nodes:   %d\n", len(doc.Nodes))
			fmt.Printf("Edges:   %d\n", len(doc.Edges))

			counts := make(map[models.NodeType]int)
			for _, node := range doc.Nodes {
				counts[node.Type]++
			}

			types := make([]models.NodeType, 0, len(counts))
			for t := range counts {
				types = append(types, t)
			}

			sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

			for _, t := range types {
				fmt.Printf("  %-8s %d\n", t, counts[t])
			}

			return nil
		},
	}
}
