package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/models"
)

func snapshot(name string) *models.WorkflowDocument {
	return &models.WorkflowDocument{
		ID:      "doc-1",
		Name:    name,
		Version: "1.0.0",
		Nodes:   []*models.Node{},
		Edges:   []*models.Edge{},
	}
}

func TestNew_StartsWithNothingToUndo(t *testing.T) {
	m := New(snapshot("initial"))

	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, 1, m.Len())

	_, ok := m.Undo()
	assert.False(t, ok)

	_, ok = m.Redo()
	assert.False(t, ok)
}

func TestUndoRedo_AreInverse(t *testing.T) {
	m := New(snapshot("v0"))
	m.Commit(snapshot("v1"))
	m.Commit(snapshot("v2"))

	doc, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "v1", doc.Name)

	doc, ok = m.Undo()
	require.True(t, ok)
	assert.Equal(t, "v0", doc.Name)
	assert.False(t, m.CanUndo())

	doc, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, "v1", doc.Name)

	doc, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, "v2", doc.Name)
	assert.False(t, m.CanRedo())
}

func TestCommit_AfterUndoDiscardsRedoBranch(t *testing.T) {
	m := New(snapshot("v0"))
	m.Commit(snapshot("v1"))
	m.Commit(snapshot("v2"))

	_, ok := m.Undo()
	require.True(t, ok)
	require.True(t, m.CanRedo())

	m.Commit(snapshot("v1b"))

	assert.False(t, m.CanRedo(), "a new edit after undo discards the old future")

	doc, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "v1", doc.Name)

	doc, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, "v1b", doc.Name)
}

func TestClear_CollapsesToSingleEntry(t *testing.T) {
	m := New(snapshot("v0"))
	m.Commit(snapshot("v1"))
	m.Commit(snapshot("v2"))

	m.Clear(snapshot("saved"))

	assert.Equal(t, 1, m.Len())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestSnapshots_AreIsolatedFromCallers(t *testing.T) {
	original := snapshot("v0")
	original.Nodes = append(original.Nodes, &models.Node{
		ID:   "n1",
		Type: models.NodeTypeAgent,
		Data: &models.AgentData{Common: models.Common{Label: "Agent"}},
	})

	m := New(original)

	// Mutating the caller's document must not reach the stored snapshot.
	original.Nodes[0].Data.SetTitle("changed")

	m.Commit(snapshot("v1"))

	doc, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "Agent", doc.Nodes[0].Data.Title())

	// Mutating a returned snapshot must not corrupt the stack.
	doc.Nodes[0].Data.SetTitle("also changed")

	again, ok := m.Redo()
	require.True(t, ok)

	back, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, "v1", again.Name)
	assert.Equal(t, "Agent", back.Nodes[0].Data.Title())
}
