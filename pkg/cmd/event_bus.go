package cmd

import (
	"log/slog"

	"github.com/nodeloom/nodeloom/pkg/eventbus"
)

// NewEventBus creates the in-process graph event bus.
func NewEventBus(logger *slog.Logger) *eventbus.Bus {
	return eventbus.New(logger)
}
