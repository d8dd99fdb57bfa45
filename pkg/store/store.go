package store

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nodeloom/nodeloom/pkg/events"
	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/registry"
)

// duplicateOffset is the visual delta applied to a duplicated node so
// the copy does not sit exactly on top of the original.
const duplicateOffset = 40.0

const defaultEdgeType = "default"

// CommitHook receives a deep snapshot of the document after every
// committed mutation. The history manager hangs off this boundary.
type CommitHook func(doc *models.WorkflowDocument)

// EventSink receives change events after every committed mutation.
type EventSink func(ev events.GraphEvent)

// Option configures a Store.
type Option func(*Store)

// WithCommitHook wires the post-mutation snapshot callback.
func WithCommitHook(hook CommitHook) Option {
	return func(s *Store) { s.commit = hook }
}

// WithEventSink wires the change event callback.
func WithEventSink(sink EventSink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithDocument seeds the store from an existing document instead of an
// empty one.
func WithDocument(doc *models.WorkflowDocument) Option {
	return func(s *Store) { s.load(doc) }
}

// Store is the canonical owner of graph state. Every mutation is a
// single atomic step: the mutex guarantees no partially applied
// mutation is ever observable.
type Store struct {
	mu       sync.Mutex
	logger   *slog.Logger
	registry *registry.Registry

	doc   *models.WorkflowDocument
	nodes []*models.Node
	edges []*models.Edge

	selectedNodeID string
	selectedEdgeID string

	// gestureDirty is set by position updates during a drag so the whole
	// gesture coalesces into one commit at gesture end. gestureNodeID
	// remembers which node the gesture moved.
	gestureDirty  bool
	gestureNodeID string

	commit CommitHook
	sink   EventSink
}

// New creates a store over an empty document.
func New(logger *slog.Logger, reg *registry.Registry, opts ...Option) *Store {
	s := &Store{
		logger:   logger,
		registry: reg,
	}
	s.load(NewDocument("Untitled Pipeline"))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewDocument builds a fresh empty workflow document.
func NewDocument(name string) *models.WorkflowDocument {
	now := time.Now().UTC()

	return &models.WorkflowDocument{
		ID:      uuid.New().String(),
		Name:    name,
		Version: "1.0.0",
		Nodes:   []*models.Node{},
		Edges:   []*models.Edge{},
		Metadata: models.DocumentMetadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// AddNodeRequest describes a node to create. Data, when nil, falls back
// to the category's default payload.
type AddNodeRequest struct {
	Type     models.NodeType
	Position models.Position
	Label    string
	Data     models.NodeData
}

// AddNode creates a node with a fresh id and returns the id. It fails
// only when the category is not registered.
func (s *Store) AddNode(req AddNodeRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.registry.Definition(req.Type)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownNodeType, req.Type)
	}

	data := def.DefaultData()
	if req.Data != nil {
		data = req.Data.Clone()
	}

	if req.Label != "" {
		data.SetTitle(req.Label)
	} else if data.Title() == "" {
		data.SetTitle(def.Label)
	}

	node := &models.Node{
		ID:       uuid.New().String(),
		Type:     req.Type,
		Position: req.Position,
		Data:     data,
	}
	s.nodes = append(s.nodes, node)

	s.commitLocked()
	s.emitLocked(events.NodeAdded, node.ID, "")

	return node.ID, nil
}

// UpdateNodeRequest carries a partial node update; nil fields are left
// untouched. ID and Type are never updated.
type UpdateNodeRequest struct {
	Position *models.Position
	Data     models.NodeData
	Label    *string
	Selected *bool
	Dragging *bool
}

// UpdateNode shallow-merges updates into the node. A missing id is a
// silent no-op: the UI may race a delete against a stale reference.
func (s *Store) UpdateNode(id string, req UpdateNodeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.nodeByIDLocked(id)
	if node == nil {
		s.logger.Debug("Ignoring update for missing node", "node_id", id)

		return
	}

	if req.Position != nil {
		node.Position = *req.Position
	}

	if req.Data != nil {
		if req.Data.Kind() != node.Type {
			s.logger.Warn("Ignoring node data of mismatched type",
				"node_id", id, "node_type", node.Type, "data_type", req.Data.Kind())
		} else {
			node.Data = req.Data.Clone()
		}
	}

	if req.Label != nil && node.Data != nil {
		node.Data.SetTitle(*req.Label)
	}

	if req.Selected != nil {
		node.Selected = *req.Selected
	}

	if req.Dragging != nil {
		node.Dragging = *req.Dragging
	}

	s.commitLocked()
	s.emitLocked(events.NodeUpdated, id, "")
}

// MoveNode updates a node's position without committing, so a drag
// that fires many intermediate frames coalesces into the single commit
// issued by EndGesture.
func (s *Store) MoveNode(id string, pos models.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.nodeByIDLocked(id)
	if node == nil {
		s.logger.Debug("Ignoring move for missing node", "node_id", id)

		return
	}

	node.Position = pos
	s.gestureDirty = true
	s.gestureNodeID = id
}

// EndGesture commits the pending drag, if any, as one history step.
func (s *Store) EndGesture() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.gestureDirty {
		return
	}

	movedID := s.gestureNodeID
	s.gestureDirty = false
	s.gestureNodeID = ""

	s.commitLocked()
	s.emitLocked(events.NodeUpdated, movedID, "")
}

// RemoveNode removes the node and, atomically, every edge that touches
// it. Selection is cleared when the removed node was selected. A
// missing id is a silent no-op.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.nodeByIDLocked(id)
	if node == nil {
		s.logger.Debug("Ignoring removal of missing node", "node_id", id)

		return
	}

	nodes := make([]*models.Node, 0, len(s.nodes)-1)
	for _, n := range s.nodes {
		if n.ID != id {
			nodes = append(nodes, n)
		}
	}

	edges := make([]*models.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if e.Source != id && e.Target != id {
			edges = append(edges, e)
		} else if s.selectedEdgeID == e.ID {
			s.selectedEdgeID = ""
		}
	}

	s.nodes = nodes
	s.edges = edges

	if s.selectedNodeID == id {
		s.selectedNodeID = ""
	}

	s.commitLocked()
	s.emitLocked(events.NodeRemoved, id, "")
}

// DuplicateNode deep-copies a node's data, offsets its position and
// appends "(Copy)" to its label. Edges are not duplicated. Returns the
// new node's id, or empty when the source id is missing.
func (s *Store) DuplicateNode(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.nodeByIDLocked(id)
	if node == nil {
		s.logger.Debug("Ignoring duplication of missing node", "node_id", id)

		return "", nil
	}

	if !s.registry.Has(node.Type) {
		return "", fmt.Errorf("%w: %s", ErrUnknownNodeType, node.Type)
	}

	dup := node.Clone()
	dup.ID = uuid.New().String()
	dup.Selected = false
	dup.Dragging = false
	dup.Position.X += duplicateOffset
	dup.Position.Y += duplicateOffset

	if dup.Data != nil {
		dup.Data.SetTitle(dup.Data.Title() + " (Copy)")
	}

	s.nodes = append(s.nodes, dup)

	s.commitLocked()
	s.emitLocked(events.NodeDuplicated, dup.ID, "")

	return dup.ID, nil
}

// AddEdgeRequest describes an edge to create.
type AddEdgeRequest struct {
	Source       string
	Target       string
	SourceHandle string
	TargetHandle string
	Type         string
}

// AddEdge creates an edge with a fresh id, defaulting the type to
// "default" and the validation status to pending. Arity and type
// constraints are deliberately not enforced here; the validation
// engine reports them after the fact. Both endpoints must exist.
func (s *Store) AddEdge(req AddEdgeRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nodeByIDLocked(req.Source) == nil || s.nodeByIDLocked(req.Target) == nil {
		s.logger.Error("Refusing edge with missing endpoint",
			"source", req.Source, "target", req.Target)

		return "", fmt.Errorf("%w: %s -> %s", ErrReferentialViolation, req.Source, req.Target)
	}

	edgeType := req.Type
	if edgeType == "" {
		edgeType = defaultEdgeType
	}

	edge := &models.Edge{
		ID:           uuid.New().String(),
		Source:       req.Source,
		Target:       req.Target,
		SourceHandle: req.SourceHandle,
		TargetHandle: req.TargetHandle,
		Type:         edgeType,
		Data:         models.EdgeData{ValidationStatus: models.EdgeStatusPending},
	}
	s.edges = append(s.edges, edge)

	s.commitLocked()
	s.emitLocked(events.EdgeAdded, "", edge.ID)

	return edge.ID, nil
}

// UpdateEdgeRequest carries a partial edge update.
type UpdateEdgeRequest struct {
	Type             *string
	ValidationStatus *models.EdgeValidationStatus
}

// UpdateEdge merges updates into the edge; a missing id is a silent
// no-op.
func (s *Store) UpdateEdge(id string, req UpdateEdgeRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge := s.edgeByIDLocked(id)
	if edge == nil {
		s.logger.Debug("Ignoring update for missing edge", "edge_id", id)

		return
	}

	if req.Type != nil {
		edge.Type = *req.Type
	}

	if req.ValidationStatus != nil {
		edge.Data.ValidationStatus = *req.ValidationStatus
	}

	s.commitLocked()
	s.emitLocked(events.EdgeUpdated, "", id)
}

// RemoveEdge removes the edge; a missing id is a silent no-op.
func (s *Store) RemoveEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgeByIDLocked(id) == nil {
		s.logger.Debug("Ignoring removal of missing edge", "edge_id", id)

		return
	}

	edges := make([]*models.Edge, 0, len(s.edges)-1)
	for _, e := range s.edges {
		if e.ID != id {
			edges = append(edges, e)
		}
	}

	s.edges = edges

	if s.selectedEdgeID == id {
		s.selectedEdgeID = ""
	}

	s.commitLocked()
	s.emitLocked(events.EdgeRemoved, "", id)
}

// Load replaces the whole graph with the given document. It does not
// commit; callers decide how the swap interacts with history.
func (s *Store) Load(doc *models.WorkflowDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.load(doc)
}

func (s *Store) load(doc *models.WorkflowDocument) {
	cloned := doc.Clone()

	s.doc = cloned
	s.nodes = cloned.Nodes
	s.edges = cloned.Edges
	s.selectedNodeID = ""
	s.selectedEdgeID = ""
	s.gestureDirty = false
	s.gestureNodeID = ""
}

// SetName renames the document.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" || name == s.doc.Name {
		return
	}

	s.doc.Name = name
	s.commitLocked()
}

// commitLocked stamps the document and hands a snapshot to the commit
// hook. Must be called with the mutex held.
func (s *Store) commitLocked() {
	s.doc.Metadata.UpdatedAt = time.Now().UTC()

	if s.commit != nil {
		s.commit(s.snapshotLocked())
	}
}

func (s *Store) emitLocked(eventType events.Type, nodeID, edgeID string) {
	if s.sink == nil {
		return
	}

	ev := events.NewGraphEvent(eventType, s.doc.ID)
	ev.NodeID = nodeID
	ev.EdgeID = edgeID
	s.sink(ev)
}

// snapshotLocked rebuilds the document aggregate from current state as
// a deep copy.
func (s *Store) snapshotLocked() *models.WorkflowDocument {
	doc := *s.doc
	doc.Nodes = s.nodes
	doc.Edges = s.edges

	return doc.Clone()
}

func (s *Store) nodeByIDLocked(id string) *models.Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

func (s *Store) edgeByIDLocked(id string) *models.Edge {
	for _, e := range s.edges {
		if e.ID == id {
			return e
		}
	}

	return nil
}
