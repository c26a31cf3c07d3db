package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autoweave/mem0-bridge/internal/model"
	registryembed "github.com/autoweave/mem0-bridge/internal/registry/embed"
	registrygraph "github.com/autoweave/mem0-bridge/internal/registry/graph"
	registryvector "github.com/autoweave/mem0-bridge/internal/registry/vector"
	"github.com/google/uuid"
)

// defaultSearchLimit is used when a caller passes a non-positive limit.
const defaultSearchLimit = 10

// Client composes the embedding provider, the vector store and the optional
// graph store into the memory operations the bridge exposes. The graph store
// is auxiliary: its failures are logged, never returned.
type Client struct {
	embedder registryembed.Embedder
	vector   registryvector.VectorStore
	graph    registrygraph.GraphStore // nil when the graph store is disabled
}

// New creates a memory client. graph may be nil.
func New(embedder registryembed.Embedder, vector registryvector.VectorStore, graph registrygraph.GraphStore) *Client {
	return &Client{embedder: embedder, vector: vector, graph: graph}
}

// Add stores one memory per non-empty message and returns the created records.
func (c *Client) Add(ctx context.Context, messages []model.Message, userID string, metadata map[string]any) ([]model.Record, error) {
	var texts []string
	for _, m := range messages {
		if s := strings.TrimSpace(m.Content); s != "" {
			texts = append(texts, s)
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("memory add: no message content to store")
	}

	embeddings, err := c.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	records := make([]model.Record, len(texts))
	reqs := make([]registryvector.UpsertRequest, len(texts))
	for i, text := range texts {
		rec := model.Record{
			ID:        uuid.NewString(),
			Memory:    text,
			UserID:    userID,
			Metadata:  metadata,
			CreatedAt: now,
		}
		records[i] = rec
		reqs[i] = registryvector.UpsertRequest{Record: rec, Embedding: embeddings[i]}
	}
	if err := c.vector.Upsert(ctx, reqs); err != nil {
		return nil, err
	}

	if c.graph != nil {
		for _, rec := range records {
			if err := c.graph.LinkMemory(ctx, rec); err != nil {
				log.Warn("Graph link failed", "memoryId", rec.ID, "err", err)
			}
		}
	}
	return records, nil
}

// Search embeds the query and returns the closest memories for the user.
func (c *Client) Search(ctx context.Context, query, userID string, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	embeddings, err := c.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return c.vector.Search(ctx, embeddings[0], userID, limit)
}

// GetAll returns every memory stored for the user.
func (c *Client) GetAll(ctx context.Context, userID string) ([]model.Record, error) {
	return c.vector.List(ctx, userID)
}

// Update applies a partial update to a stored memory. A "memory" (or "text")
// key replaces the memory text and re-embeds it; all other keys are merged
// into the record's metadata.
func (c *Client) Update(ctx context.Context, memoryID string, data map[string]any) (model.Record, error) {
	rec, err := c.vector.Get(ctx, memoryID)
	if err != nil {
		return model.Record{}, err
	}

	var embedding []float32
	if text, ok := stringField(data, "memory", "text"); ok && text != rec.Memory {
		embeddings, err := c.embedder.EmbedTexts(ctx, []string{text})
		if err != nil {
			return model.Record{}, err
		}
		embedding = embeddings[0]
		rec.Memory = text
	}

	for k, v := range data {
		if k == "memory" || k == "text" {
			continue
		}
		if rec.Metadata == nil {
			rec.Metadata = map[string]any{}
		}
		rec.Metadata[k] = v
	}

	now := time.Now().UTC()
	rec.UpdatedAt = &now
	if err := c.vector.Update(ctx, memoryID, rec, embedding); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// Delete removes a memory from the vector store and, when enabled, the graph store.
func (c *Client) Delete(ctx context.Context, memoryID string) error {
	if err := c.vector.Delete(ctx, memoryID); err != nil {
		return err
	}
	if c.graph != nil {
		if err := c.graph.UnlinkMemory(ctx, memoryID); err != nil {
			log.Warn("Graph unlink failed", "memoryId", memoryID, "err", err)
		}
	}
	return nil
}

func stringField(data map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := data[k].(string); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}
