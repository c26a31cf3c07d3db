package vector

import (
	"context"
	"fmt"

	"github.com/autoweave/mem0-bridge/internal/model"
)

// UpsertRequest holds one record and its embedding for storage.
type UpsertRequest struct {
	Record    model.Record
	Embedding []float32
}

// VectorStore defines the interface for vector search backends.
type VectorStore interface {
	// Migrate creates the backing collection/schema when it does not exist.
	Migrate(ctx context.Context) error
	// Upsert stores or replaces a batch of records with their embeddings.
	Upsert(ctx context.Context, reqs []UpsertRequest) error
	// Search performs a semantic search scoped to a single user.
	Search(ctx context.Context, embedding []float32, userID string, limit int) ([]model.Record, error)
	// List returns all records stored for a user.
	List(ctx context.Context, userID string) ([]model.Record, error)
	// Get fetches a single record by ID.
	Get(ctx context.Context, id string) (model.Record, error)
	// Update rewrites a record's payload; a non-nil embedding also replaces
	// the stored vector.
	Update(ctx context.Context, id string, rec model.Record, embedding []float32) error
	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error
	// Ping verifies connectivity to the backend.
	Ping(ctx context.Context) error
	// Name returns the plugin name (e.g. "qdrant").
	Name() string
}

// Loader creates a VectorStore from config.
type Loader func(ctx context.Context) (VectorStore, error)

// Plugin represents a vector store plugin.
type Plugin struct {
	Name   string
	Loader Loader
}

var plugins []Plugin

// Register adds a vector store plugin.
func Register(p Plugin) {
	plugins = append(plugins, p)
}

// Names returns all registered vector store plugin names.
func Names() []string {
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}

// Select returns the loader for the named vector store plugin.
func Select(name string) (Loader, error) {
	for _, p := range plugins {
		if p.Name == name {
			return p.Loader, nil
		}
	}
	return nil, fmt.Errorf("unknown vector store %q; valid: %v", name, Names())
}
