// Package connection implements the two-phase state machine behind the
// edge-drag gesture: Idle until a drag starts from an output handle,
// Connecting until the drag completes over a compatible input handle or
// is cancelled.
package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nodeloom/nodeloom/pkg/registry"
	"github.com/nodeloom/nodeloom/pkg/store"
)

// State of the drag gesture.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
)

var (
	// ErrNotConnecting is returned when Complete is called outside an
	// active drag.
	ErrNotConnecting = errors.New("no connection in progress")

	// ErrUnknownSource is returned when a drag starts from a node that
	// is not in the graph.
	ErrUnknownSource = errors.New("source node not found")

	// ErrUnknownTarget is returned when the drag ends over a node that
	// is not in the graph.
	ErrUnknownTarget = errors.New("target node not found")

	// ErrSelfLoop is returned when the drag ends on the node it started
	// from.
	ErrSelfLoop = errors.New("cannot connect a node to itself")

	// ErrTargetSaturated is returned when the target is already at its
	// max-incoming-edge limit.
	ErrTargetSaturated = errors.New("target node input limit reached")
)

// Tracker drives the gesture. Compatibility at commit time is shallow
// on purpose: the target must exist, must not be the source, and must
// have input capacity left. Deeper structural checks (type rules,
// global cycles) stay with the validation engine so a flagged edge can
// be created and fixed afterwards.
type Tracker struct {
	mu       sync.Mutex
	logger   *slog.Logger
	store    *store.Store
	registry *registry.Registry

	state        State
	sourceNodeID string
	sourceHandle string
}

// NewTracker creates an idle tracker over the given store.
func NewTracker(logger *slog.Logger, st *store.Store, reg *registry.Registry) *Tracker {
	return &Tracker{
		logger:   logger,
		store:    st,
		registry: reg,
		state:    StateIdle,
	}
}

// State returns the current gesture state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Source returns the recorded drag origin while connecting.
func (t *Tracker) Source() (nodeID, handleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sourceNodeID, t.sourceHandle
}

// Start records the drag origin and moves to Connecting. Starting a
// new drag while one is in flight replaces the origin; the pointer can
// only be in one place.
func (t *Tracker) Start(sourceNodeID, sourceHandle string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.store.HasNode(sourceNodeID) {
		return fmt.Errorf("%w: %s", ErrUnknownSource, sourceNodeID)
	}

	if t.state == StateConnecting {
		t.logger.Debug("Restarting connection drag mid-flight",
			"previous_source", t.sourceNodeID, "source", sourceNodeID)
	}

	t.state = StateConnecting
	t.sourceNodeID = sourceNodeID
	t.sourceHandle = sourceHandle

	return nil
}

// Complete commits the edge when the release point is compatible and
// always returns the tracker to Idle, even on failure. Returns the new
// edge id on success.
func (t *Tracker) Complete(targetNodeID, targetHandle string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateConnecting {
		return "", ErrNotConnecting
	}

	source := t.sourceNodeID
	sourceHandle := t.sourceHandle

	// Whatever happens below, the gesture is over.
	t.reset()

	if !t.store.HasNode(targetNodeID) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTarget, targetNodeID)
	}

	if targetNodeID == source {
		return "", ErrSelfLoop
	}

	if err := t.checkInputCapacity(targetNodeID, targetHandle); err != nil {
		return "", err
	}

	edgeID, err := t.store.AddEdge(store.AddEdgeRequest{
		Source:       source,
		Target:       targetNodeID,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit connection: %w", err)
	}

	return edgeID, nil
}

// Cancel aborts the drag and returns to Idle. Always safe to call; no
// edge is ever left half-created.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.reset()
}

func (t *Tracker) reset() {
	t.state = StateIdle
	t.sourceNodeID = ""
	t.sourceHandle = ""
}

func (t *Tracker) checkInputCapacity(targetNodeID, targetHandle string) error {
	node := t.store.NodeByID(targetNodeID)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, targetNodeID)
	}

	def, ok := t.registry.Definition(node.Type)
	if !ok {
		// Unknown categories carry no arity limits; validation will
		// flag the node itself.
		return nil
	}

	maxIn := def.Arity.MaxInputs
	if maxIn == registry.Unlimited {
		return nil
	}

	if t.store.IncomingCount(targetNodeID, "") >= maxIn {
		return fmt.Errorf("%w: %s", ErrTargetSaturated, targetNodeID)
	}

	return nil
}
