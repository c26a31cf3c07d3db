package graph

import (
	"context"
	"fmt"

	"github.com/autoweave/mem0-bridge/internal/model"
)

// GraphStore records memory ownership relationships in a graph backend.
// It is an auxiliary store: callers treat its failures as non-fatal.
type GraphStore interface {
	// LinkMemory creates the memory node and its ownership edge.
	LinkMemory(ctx context.Context, rec model.Record) error
	// UnlinkMemory removes the memory node and its edges.
	UnlinkMemory(ctx context.Context, id string) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
	// Name returns the plugin name (e.g. "memgraph").
	Name() string
}

// Loader creates a GraphStore from config.
type Loader func(ctx context.Context) (GraphStore, error)

// Plugin represents a graph store plugin.
type Plugin struct {
	Name   string
	Loader Loader
}

var plugins []Plugin

// Register adds a graph store plugin.
func Register(p Plugin) {
	plugins = append(plugins, p)
}

// Names returns all registered graph store plugin names.
func Names() []string {
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Name
	}
	return names
}

// Select returns the loader for the named graph store plugin.
func Select(name string) (Loader, error) {
	for _, p := range plugins {
		if p.Name == name {
			return p.Loader, nil
		}
	}
	return nil, fmt.Errorf("unknown graph store %q; valid: %v", name, Names())
}
