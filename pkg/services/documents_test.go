package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/persistence/file"
)

func newTestDocuments(t *testing.T) *Documents {
	t.Helper()

	return NewDocuments(file.NewRepository(t.TempDir()))
}

func TestDocuments_Create(t *testing.T) {
	service := newTestDocuments(t)

	created, err := service.Create(t.Context(), &models.WorkflowDocument{Name: "Pipeline"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "1.0.0", created.Version)
	assert.False(t, created.Metadata.CreatedAt.IsZero())
	assert.NotNil(t, created.Nodes)
	assert.NotNil(t, created.Edges)
}

func TestDocuments_Create_RequiresName(t *testing.T) {
	service := newTestDocuments(t)

	_, err := service.Create(t.Context(), &models.WorkflowDocument{})
	require.ErrorIs(t, err, ErrDocumentNameRequired)

	_, err = service.Create(t.Context(), nil)
	require.ErrorIs(t, err, ErrNilDocument)
}

func TestDocuments_FetchByID(t *testing.T) {
	service := newTestDocuments(t)

	created, err := service.Create(t.Context(), &models.WorkflowDocument{Name: "Pipeline"})
	require.NoError(t, err)

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	_, err = service.FetchByID(t.Context(), "missing")
	require.ErrorIs(t, err, ErrDocumentNotFound)
	assert.True(t, IsNotFound(err))
}

func TestDocuments_Update_PreservesIdentity(t *testing.T) {
	service := newTestDocuments(t)

	created, err := service.Create(t.Context(), &models.WorkflowDocument{Name: "Before"})
	require.NoError(t, err)

	replacement := created.Clone()
	replacement.Name = "After"
	replacement.ID = "attempted-id-change"

	updated, err := service.Update(t.Context(), created.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t,
		created.Metadata.CreatedAt.Truncate(time.Second),
		updated.Metadata.CreatedAt.Truncate(time.Second))
}

func TestDocuments_Update_Missing(t *testing.T) {
	service := newTestDocuments(t)

	_, err := service.Update(t.Context(), "missing", &models.WorkflowDocument{Name: "X"})
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocuments_Import_KeepsIDs(t *testing.T) {
	service := newTestDocuments(t)

	doc := &models.WorkflowDocument{
		ID:      "imported-id",
		Name:    "Imported",
		Version: "1.0.0",
		Nodes:   []*models.Node{},
		Edges:   []*models.Edge{},
	}

	stored, err := service.Import(t.Context(), doc)
	require.NoError(t, err)
	assert.Equal(t, "imported-id", stored.ID)
	assert.False(t, stored.Metadata.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), "imported-id")
	require.NoError(t, err)
	assert.Equal(t, "Imported", fetched.Name)
}

func TestDocuments_Delete(t *testing.T) {
	service := newTestDocuments(t)

	created, err := service.Create(t.Context(), &models.WorkflowDocument{Name: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	err = service.Delete(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocuments_List(t *testing.T) {
	service := newTestDocuments(t)

	docs, err := service.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = service.Create(t.Context(), &models.WorkflowDocument{Name: "One"})
	require.NoError(t, err)
	_, err = service.Create(t.Context(), &models.WorkflowDocument{Name: "Two"})
	require.NoError(t, err)

	docs, err = service.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocuments_HealthCheck(t *testing.T) {
	service := newTestDocuments(t)

	msg, ok := service.HealthCheck(t.Context())
	assert.True(t, ok)
	assert.NotEmpty(t, msg)

	noRepo := NewDocuments(nil)
	_, ok = noRepo.HealthCheck(t.Context())
	assert.False(t, ok)
}
