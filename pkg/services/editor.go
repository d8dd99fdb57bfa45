package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeloom/nodeloom/pkg/document"
	"github.com/nodeloom/nodeloom/pkg/eventbus"
	"github.com/nodeloom/nodeloom/pkg/events"
	"github.com/nodeloom/nodeloom/pkg/history"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/otelhelper"
	"github.com/nodeloom/nodeloom/pkg/persistence"
	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/store"
	"github.com/nodeloom/nodeloom/pkg/validation"
)

// Editor is one editing session: a graph store with history, change
// events and optional persistence behind it. Multiple independent
// editors share nothing.
type Editor struct {
	logger   *slog.Logger
	registry *registry.Registry
	store    *store.Store
	history  *history.Manager

	repo   persistence.Repository
	bus    *eventbus.Bus
	tracer trace.Tracer

	// dirty flips on every commit and clears on save/load, so autosave
	// can skip idle sessions.
	dirty atomic.Bool

	// revision counts graph changes so an async save completion can tell
	// whether edits landed while it was in flight.
	revision atomic.Uint64
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithRepository wires durable document storage.
func WithRepository(repo persistence.Repository) EditorOption {
	return func(e *Editor) { e.repo = repo }
}

// WithEventBus wires graph change event publishing.
func WithEventBus(bus *eventbus.Bus) EditorOption {
	return func(e *Editor) { e.bus = bus }
}

// WithTracer wires span creation around persistence operations.
func WithTracer(tracer trace.Tracer) EditorOption {
	return func(e *Editor) { e.tracer = tracer }
}

// NewEditor creates an editing session over a fresh empty document.
func NewEditor(logger *slog.Logger, reg *registry.Registry, opts ...EditorOption) *Editor {
	e := &Editor{
		logger:   logger,
		registry: reg,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.store = store.New(logger, reg,
		store.WithCommitHook(e.onCommit),
		store.WithEventSink(e.onEvent),
	)
	e.history = history.New(e.store.Document())

	return e
}

// Store exposes the graph store's mutation and read API.
func (e *Editor) Store() *store.Store {
	return e.store
}

// Registry exposes the node-type table.
func (e *Editor) Registry() *registry.Registry {
	return e.registry
}

// Document returns a deep copy of the current document.
func (e *Editor) Document() *models.WorkflowDocument {
	return e.store.Document()
}

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty.Load()
}

func (e *Editor) onCommit(doc *models.WorkflowDocument) {
	e.history.Commit(doc)
	e.revision.Add(1)
	e.dirty.Store(true)
}

func (e *Editor) onEvent(ev events.GraphEvent) {
	if e.bus == nil {
		return
	}

	if err := e.bus.Publish(ev); err != nil {
		e.logger.Error("Failed to publish graph event", "type", ev.Type, "error", err)
	}
}

// Undo steps the session back one committed mutation. Returns false
// when there is nothing to undo.
func (e *Editor) Undo() bool {
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}

	e.store.Load(snap)
	e.revision.Add(1)
	e.dirty.Store(true)

	return true
}

// Redo steps the session forward again. Returns false when there is
// nothing to redo.
func (e *Editor) Redo() bool {
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}

	e.store.Load(snap)
	e.revision.Add(1)
	e.dirty.Store(true)

	return true
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Validate runs the structural validator over the current graph.
func (e *Editor) Validate() *models.ValidationResult {
	return validation.Validate(e.store.Nodes(), e.store.Edges(), e.registry)
}

// DeleteSelection removes the currently selected node or edge, if any.
func (e *Editor) DeleteSelection() {
	if id := e.store.SelectedNodeID(); id != "" {
		e.store.RemoveNode(id)

		return
	}

	if id := e.store.SelectedEdgeID(); id != "" {
		e.store.RemoveEdge(id)
	}
}

// DuplicateSelection duplicates the currently selected node and
// returns the new id, or empty when nothing is selected.
func (e *Editor) DuplicateSelection() (string, error) {
	id := e.store.SelectedNodeID()
	if id == "" {
		return "", nil
	}

	return e.store.DuplicateNode(id)
}

// NewDocument replaces the session with a fresh empty document and
// resets history.
func (e *Editor) NewDocument(name string) *models.WorkflowDocument {
	doc := store.NewDocument(name)
	e.store.Load(doc)
	e.history.Clear(e.store.Document())
	e.revision.Add(1)
	e.dirty.Store(false)

	return doc
}

// Save persists a snapshot of the current document and collapses
// history to it. In-memory editing is never blocked by a slow store;
// callers wanting that guarantee use SaveAsync.
func (e *Editor) Save(ctx context.Context) error {
	if e.repo == nil {
		return ErrNoRepository
	}

	doc := e.store.Document()

	if e.tracer != nil {
		var span trace.Span
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "editor.save",
			attribute.String(otelhelper.DocumentIDKey, doc.ID),
			attribute.String(otelhelper.DocumentNameKey, doc.Name),
		)

		defer span.End()

		if err := e.saveSnapshot(ctx, doc); err != nil {
			otelhelper.SetError(span, err)

			return err
		}

		return nil
	}

	return e.saveSnapshot(ctx, doc)
}

func (e *Editor) saveSnapshot(ctx context.Context, doc *models.WorkflowDocument) error {
	if err := e.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document %s: %w", doc.ID, err)
	}

	e.history.Clear(doc)
	e.dirty.Store(false)

	e.publishDocumentEvent(events.DocumentSaved, doc.ID)

	return nil
}

// SaveAsync snapshots the document synchronously, then persists it in
// the background. The returned channel yields the final error exactly
// once. A failed or slow save never blocks further editing.
func (e *Editor) SaveAsync(ctx context.Context) <-chan error {
	errCh := make(chan error, 1)

	if e.repo == nil {
		errCh <- ErrNoRepository
		close(errCh)

		return errCh
	}

	// Capture the revision before the snapshot: a commit racing the
	// snapshot then keeps the session dirty instead of being dropped.
	rev := e.revision.Load()
	doc := e.store.Document()

	go func() {
		defer close(errCh)

		if err := e.repo.Save(ctx, doc); err != nil {
			errCh <- fmt.Errorf("failed to save document %s: %w", doc.ID, err)

			return
		}

		// Only collapse history and clear the dirty flag when nothing
		// changed while the save was in flight; otherwise the session
		// has moved past the persisted snapshot and stays dirty.
		if e.revision.Load() == rev {
			e.history.Clear(doc)
			e.dirty.Store(false)
		}

		e.publishDocumentEvent(events.DocumentSaved, doc.ID)

		errCh <- nil
	}()

	return errCh
}

// Load replaces the session with a stored document. The swap is
// all-or-nothing: a repository failure leaves the current graph
// untouched.
func (e *Editor) Load(ctx context.Context, id string) error {
	if e.repo == nil {
		return ErrNoRepository
	}

	if e.tracer != nil {
		var span trace.Span
		ctx, span = otelhelper.StartSpan(ctx, e.tracer, "editor.load",
			attribute.String(otelhelper.DocumentIDKey, id),
		)
		defer span.End()
	}

	doc, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", id, err)
	}

	if doc == nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	e.store.Load(doc)
	e.history.Clear(e.store.Document())
	e.revision.Add(1)
	e.dirty.Store(false)

	e.publishDocumentEvent(events.DocumentLoaded, doc.ID)

	return nil
}

// ImportDocument parses a serialized document and swaps it in. A
// malformed payload is rejected without touching the live graph.
func (e *Editor) ImportDocument(data []byte) error {
	doc, err := document.Import(data)
	if err != nil {
		return err
	}

	e.store.Load(doc)
	e.history.Clear(e.store.Document())
	e.revision.Add(1)
	e.dirty.Store(true)

	e.publishDocumentEvent(events.DocumentLoaded, doc.ID)

	return nil
}

// ExportDocument serializes the current document.
func (e *Editor) ExportDocument() ([]byte, error) {
	return document.Export(e.store.Document())
}

func (e *Editor) publishDocumentEvent(eventType events.Type, documentID string) {
	if e.bus == nil {
		return
	}

	if err := e.bus.Publish(events.NewGraphEvent(eventType, documentID)); err != nil {
		e.logger.Error("Failed to publish document event", "type", eventType, "error", err)
	}
}
