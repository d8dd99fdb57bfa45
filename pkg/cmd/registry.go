// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/nodeloom/nodeloom/pkg/registry"
)

// NewRegistry creates a node-type registry with the builtin definitions
// installed.
func NewRegistry(logger *slog.Logger) *registry.Registry {
	return registry.NewWithBuiltins(logger)
}
