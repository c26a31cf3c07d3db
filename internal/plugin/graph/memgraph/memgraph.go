package memgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/autoweave/mem0-bridge/internal/config"
	"github.com/autoweave/mem0-bridge/internal/model"
	registrygraph "github.com/autoweave/mem0-bridge/internal/registry/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func init() {
	registrygraph.Register(registrygraph.Plugin{
		Name:   "memgraph",
		Loader: load,
	})
}

func load(ctx context.Context) (registrygraph.GraphStore, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("memgraph: missing config in context")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.MemgraphURI(),
		neo4j.BasicAuth(cfg.MemgraphUser, cfg.MemgraphPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("memgraph: connect: %w", err)
	}
	return &Store{driver: driver}, nil
}

// Store links memories to their owners in Memgraph over the Bolt protocol.
// Memgraph is wire-compatible with the Neo4j driver.
type Store struct {
	driver neo4j.DriverWithContext
}

func (s *Store) Name() string { return "memgraph" }

func (s *Store) LinkMemory(ctx context.Context, rec model.Record) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver,
		`MERGE (u:User {id: $user_id})
		 MERGE (m:Memory {id: $id})
		 SET m.text = $text, m.created_at = $created_at
		 MERGE (u)-[:REMEMBERS]->(m)`,
		map[string]any{
			"user_id":    rec.UserID,
			"id":         rec.ID,
			"text":       rec.Memory,
			"created_at": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
		neo4j.EagerResultTransformer)
	if err != nil {
		return fmt.Errorf("memgraph: link memory: %w", err)
	}
	return nil
}

func (s *Store) UnlinkMemory(ctx context.Context, id string) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver,
		`MATCH (m:Memory {id: $id}) DETACH DELETE m`,
		map[string]any{"id": id},
		neo4j.EagerResultTransformer)
	if err != nil {
		return fmt.Errorf("memgraph: unlink memory: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
