package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Autosave periodically persists dirty editor sessions in the
// background. Each run reads a consistent snapshot; mutations are
// atomic synchronous steps, so a save never observes a graph
// mid-mutation.
type Autosave struct {
	logger   *slog.Logger
	editor   *Editor
	interval time.Duration
	cron     *cron.Cron
}

// NewAutosave creates an autosave runner for the editor.
func NewAutosave(logger *slog.Logger, editor *Editor, interval time.Duration) *Autosave {
	return &Autosave{
		logger:   logger,
		editor:   editor,
		interval: interval,
	}
}

// Start schedules the periodic save.
func (a *Autosave) Start() error {
	if a.cron != nil {
		return nil
	}

	c := cron.New()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", a.interval), a.run)
	if err != nil {
		return fmt.Errorf("failed to schedule autosave: %w", err)
	}

	c.Start()
	a.cron = c

	a.logger.Info("Autosave started", "interval", a.interval)

	return nil
}

// Stop cancels the schedule; an in-flight save finishes on its own.
func (a *Autosave) Stop() {
	if a.cron == nil {
		return
	}

	a.cron.Stop()
	a.cron = nil

	a.logger.Info("Autosave stopped")
}

func (a *Autosave) run() {
	if !a.editor.Dirty() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.interval)
	defer cancel()

	if err := <-a.editor.SaveAsync(ctx); err != nil {
		a.logger.Error("Autosave failed", "error", err)
	}
}
