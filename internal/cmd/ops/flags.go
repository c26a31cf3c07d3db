package ops

import (
	"strings"

	"github.com/autoweave/mem0-bridge/internal/config"
	registryembed "github.com/autoweave/mem0-bridge/internal/registry/embed"
	registrygraph "github.com/autoweave/mem0-bridge/internal/registry/graph"
	registryvector "github.com/autoweave/mem0-bridge/internal/registry/vector"
	"github.com/urfave/cli/v3"
)

// flags returns the backend configuration flags shared by every verb command.
// Each flag reads its default from the environment, matching the variables
// the surrounding deployment already sets.
func flags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{

		// ── Vector Store ──────────────────────────────────────────
		&cli.StringFlag{
			Name:        "vector-kind",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("MEM0_BRIDGE_VECTOR_KIND"),
			Destination: &cfg.VectorType,
			Value:       cfg.VectorType,
			Usage:       "Vector store (" + strings.Join(registryvector.Names(), "|") + ")",
		},
		&cli.StringFlag{
			Name:        "qdrant-host",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("QDRANT_HOST"),
			Destination: &cfg.QdrantHost,
			Value:       cfg.QdrantHost,
			Usage:       "Qdrant host",
		},
		&cli.IntFlag{
			Name:        "qdrant-port",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("QDRANT_PORT"),
			Destination: &cfg.QdrantPort,
			Value:       cfg.QdrantPort,
			Usage:       "Qdrant gRPC port",
		},
		&cli.StringFlag{
			Name:        "qdrant-collection",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("QDRANT_COLLECTION"),
			Destination: &cfg.QdrantCollectionName,
			Value:       cfg.QdrantCollectionName,
			Usage:       "Qdrant collection name",
		},
		&cli.StringFlag{
			Name:        "qdrant-api-key",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("QDRANT_API_KEY"),
			Destination: &cfg.QdrantAPIKey,
			Usage:       "Qdrant API key",
		},
		&cli.BoolFlag{
			Name:        "qdrant-tls",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("QDRANT_USE_TLS"),
			Destination: &cfg.QdrantUseTLS,
			Usage:       "Use TLS for the Qdrant connection",
		},
		&cli.BoolFlag{
			Name:        "skip-connectivity-check",
			Category:    "Vector Store:",
			Sources:     cli.EnvVars("SKIP_CONNECTIVITY_CHECK"),
			Destination: &cfg.SkipConnectivityCheck,
			Usage:       "Skip the vector store connectivity probe during initialization",
		},

		// ── Graph Store ───────────────────────────────────────────
		&cli.StringFlag{
			Name:        "graph-kind",
			Category:    "Graph Store:",
			Sources:     cli.EnvVars("MEM0_BRIDGE_GRAPH_KIND"),
			Destination: &cfg.GraphKind,
			Value:       cfg.GraphKind,
			Usage:       "Graph store (none|" + strings.Join(registrygraph.Names(), "|") + ")",
		},
		&cli.StringFlag{
			Name:        "memgraph-host",
			Category:    "Graph Store:",
			Sources:     cli.EnvVars("MEMGRAPH_HOST"),
			Destination: &cfg.MemgraphHost,
			Value:       cfg.MemgraphHost,
			Usage:       "Memgraph host",
		},
		&cli.IntFlag{
			Name:        "memgraph-port",
			Category:    "Graph Store:",
			Sources:     cli.EnvVars("MEMGRAPH_PORT"),
			Destination: &cfg.MemgraphPort,
			Value:       cfg.MemgraphPort,
			Usage:       "Memgraph Bolt port",
		},
		&cli.StringFlag{
			Name:        "memgraph-user",
			Category:    "Graph Store:",
			Sources:     cli.EnvVars("MEMGRAPH_USER"),
			Destination: &cfg.MemgraphUser,
			Value:       cfg.MemgraphUser,
			Usage:       "Memgraph username",
		},
		&cli.StringFlag{
			Name:        "memgraph-password",
			Category:    "Graph Store:",
			Sources:     cli.EnvVars("MEMGRAPH_PASSWORD"),
			Destination: &cfg.MemgraphPassword,
			Value:       cfg.MemgraphPassword,
			Usage:       "Memgraph password",
		},

		// ── Embedding ─────────────────────────────────────────────
		&cli.StringFlag{
			Name:        "embedding-kind",
			Category:    "Embedding:",
			Sources:     cli.EnvVars("MEM0_BRIDGE_EMBEDDING_KIND"),
			Destination: &cfg.EmbedType,
			Value:       cfg.EmbedType,
			Usage:       "Embedding provider (" + strings.Join(registryembed.Names(), "|") + ")",
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Category:    "Embedding:",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.OpenAIAPIKey,
			Usage:       "OpenAI API key",
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Category:    "Embedding:",
			Sources:     cli.EnvVars("OPENAI_EMBEDDING_MODEL"),
			Destination: &cfg.OpenAIModelName,
			Value:       cfg.OpenAIModelName,
			Usage:       "OpenAI embedding model",
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Category:    "Embedding:",
			Sources:     cli.EnvVars("OPENAI_BASE_URL"),
			Destination: &cfg.OpenAIBaseURL,
			Value:       cfg.OpenAIBaseURL,
			Usage:       "OpenAI API base URL",
		},
		&cli.IntFlag{
			Name:        "openai-dimensions",
			Category:    "Embedding:",
			Sources:     cli.EnvVars("OPENAI_EMBEDDING_DIMENSIONS"),
			Destination: &cfg.OpenAIDimensions,
			Value:       cfg.OpenAIDimensions,
			Usage:       "Embedding dimensionality",
		},
	}
}
