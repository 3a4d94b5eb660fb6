// Package store defines the workflow storage collaborator: resolution of
// graph definitions by identifier. The engine only ever needs synchronous
// lookup by id; the storage format behind that lookup is an implementation
// detail of each Store.
package store

import (
	"context"
	"errors"

	"github.com/vk/wireflow/internal/graph"
)

// ErrNotFound is returned when no workflow definition exists for an id.
var ErrNotFound = errors.New("workflow not found")

// Store resolves and persists workflow definitions by identifier.
//
// Loaded graphs are shared definitions: callers must treat them as
// immutable, since the same *graph.Graph may back concurrent runs.
type Store interface {
	// Load returns the workflow definition registered under id, or
	// ErrNotFound.
	Load(ctx context.Context, id string) (*graph.Graph, error)

	// Save registers a workflow definition under id, replacing any
	// previous definition.
	Save(ctx context.Context, id string, g *graph.Graph) error

	// List returns the sorted identifiers of all stored definitions.
	List(ctx context.Context) ([]string, error)
}
