package config

import (
	"context"
	"fmt"
	"time"
)

type contextKey struct{}

// WithContext returns a new context carrying the given Config.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext retrieves the Config from the context.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(contextKey{}).(*Config)
	return cfg
}

// Config holds all configuration for the bridge. It is built once in the
// command layer from flags and environment variables and never mutated
// afterwards.
type Config struct {
	// Vector store type
	VectorType string // "qdrant"

	// Qdrant
	QdrantHost           string
	QdrantPort           int
	QdrantCollectionName string
	QdrantAPIKey         string
	QdrantUseTLS         bool
	QdrantStartupTimeout time.Duration

	// Graph store type
	GraphKind string // "none" or "memgraph"

	// Memgraph
	MemgraphHost     string
	MemgraphPort     int
	MemgraphUser     string
	MemgraphPassword string

	// Embedding type
	EmbedType string // "openai"

	// OpenAI
	OpenAIAPIKey     string
	OpenAIModelName  string
	OpenAIBaseURL    string
	OpenAIDimensions int

	// Skip the soft vector store connectivity probe during initialization.
	SkipConnectivityCheck bool

	// SourceTag is stamped into the metadata of every stored memory.
	SourceTag string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		VectorType:           "qdrant",
		QdrantHost:           "localhost",
		QdrantPort:           6334,
		QdrantCollectionName: "autoweave",
		QdrantStartupTimeout: 10 * time.Second,
		GraphKind:            "none",
		MemgraphHost:         "localhost",
		MemgraphPort:         7687,
		MemgraphUser:         "memgraph",
		MemgraphPassword:     "memgraph",
		EmbedType:            "openai",
		OpenAIModelName:      "text-embedding-3-large",
		OpenAIBaseURL:        "https://api.openai.com/v1",
		OpenAIDimensions:     1536,
		SourceTag:            "autoweave",
	}
}

// QdrantAddress returns the host:port gRPC target for Qdrant.
func (c *Config) QdrantAddress() string {
	return fmt.Sprintf("%s:%d", c.QdrantHost, c.QdrantPort)
}

// MemgraphURI returns the Bolt URI for the graph store.
func (c *Config) MemgraphURI() string {
	return fmt.Sprintf("bolt://%s:%d", c.MemgraphHost, c.MemgraphPort)
}

// GraphEnabled reports whether a graph store backend is configured.
func (c *Config) GraphEnabled() bool {
	return c.GraphKind != "" && c.GraphKind != "none"
}
