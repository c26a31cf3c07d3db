package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "qdrant", cfg.VectorType)
	require.Equal(t, "autoweave", cfg.QdrantCollectionName)
	require.Equal(t, "none", cfg.GraphKind)
	require.Equal(t, "openai", cfg.EmbedType)
	require.Equal(t, "text-embedding-3-large", cfg.OpenAIModelName)
	require.Equal(t, 1536, cfg.OpenAIDimensions)
	require.Equal(t, 10*time.Second, cfg.QdrantStartupTimeout)
	require.Equal(t, "autoweave", cfg.SourceTag)
}

func TestQdrantAddress(t *testing.T) {
	cfg := Config{QdrantHost: "qdrant.example", QdrantPort: 6334}
	require.Equal(t, "qdrant.example:6334", cfg.QdrantAddress())
}

func TestMemgraphURI(t *testing.T) {
	cfg := Config{MemgraphHost: "memgraph.example", MemgraphPort: 7687}
	require.Equal(t, "bolt://memgraph.example:7687", cfg.MemgraphURI())
}

func TestGraphEnabled(t *testing.T) {
	require.False(t, (&Config{GraphKind: ""}).GraphEnabled())
	require.False(t, (&Config{GraphKind: "none"}).GraphEnabled())
	require.True(t, (&Config{GraphKind: "memgraph"}).GraphEnabled())
}

func TestFromContext_MissingReturnsNil(t *testing.T) {
	require.Nil(t, FromContext(t.Context()))
}

func TestContextRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	ctx := WithContext(t.Context(), &cfg)
	require.Same(t, &cfg, FromContext(ctx))
}
