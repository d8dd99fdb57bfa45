// Package store owns the canonical mutable graph: the node and edge
// lists, selection state, and the document aggregate rebuilt from them.
// It is the single writer; all other components read derived views or
// request mutations through its API.
package store

import "errors"

var (
	// ErrUnknownNodeType is returned when a node is added or duplicated
	// with a category that is not in the registry. The store is left
	// unchanged.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrReferentialViolation is returned when an edge would reference a
	// node that is not present in the graph. Given the store's
	// invariants this indicates a programming error in the caller.
	ErrReferentialViolation = errors.New("edge references a missing node")
)
