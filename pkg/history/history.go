// Package history implements the linear undo/redo stack of document
// snapshots coupled to the graph store's mutation boundary.
package history

import (
	"sync"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// Manager keeps full document snapshots plus a cursor. The entry at
// the cursor always equals the current document; entries before it are
// the undo chain, entries after it the redo chain.
type Manager struct {
	mu      sync.Mutex
	entries []*models.WorkflowDocument
	cursor  int
}

// New seeds the stack with a snapshot of the initial document.
func New(initial *models.WorkflowDocument) *Manager {
	return &Manager{
		entries: []*models.WorkflowDocument{initial.Clone()},
		cursor:  0,
	}
}

// Commit truncates any redo branch, appends the snapshot and advances
// the cursor onto it. New edits after an undo discard the old future.
func (m *Manager) Commit(doc *models.WorkflowDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries[:m.cursor+1], doc.Clone())
	m.cursor = len(m.entries) - 1
}

// Undo steps the cursor back and returns the snapshot now pointed at.
// Returns false when there is nothing to undo.
func (m *Manager) Undo() (*models.WorkflowDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor == 0 {
		return nil, false
	}

	m.cursor--

	return m.entries[m.cursor].Clone(), true
}

// Redo steps the cursor forward and returns the snapshot now pointed
// at. Returns false when there is nothing to redo.
func (m *Manager) Redo() (*models.WorkflowDocument, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor >= len(m.entries)-1 {
		return nil, false
	}

	m.cursor++

	return m.entries[m.cursor].Clone(), true
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cursor > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cursor < len(m.entries)-1
}

// Clear collapses the stack to a single entry equal to the given
// document. Called after a save to cap memory growth over long
// sessions, trading away prior undo depth.
func (m *Manager) Clear(current *models.WorkflowDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = []*models.WorkflowDocument{current.Clone()}
	m.cursor = 0
}

// Len returns the number of snapshots held.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
