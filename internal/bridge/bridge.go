package bridge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autoweave/mem0-bridge/internal/config"
	"github.com/autoweave/mem0-bridge/internal/memory"
	"github.com/autoweave/mem0-bridge/internal/model"
	registryembed "github.com/autoweave/mem0-bridge/internal/registry/embed"
	registrygraph "github.com/autoweave/mem0-bridge/internal/registry/graph"
	registryvector "github.com/autoweave/mem0-bridge/internal/registry/vector"
)

// State is the bridge lifecycle. Data operations are only permitted in
// StateReady; StateFailed keeps the failure cause for health introspection.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

// ErrNotInitialized is returned by data operations when the memory client was
// never constructed. It signals a configuration or startup problem, distinct
// from per-request failures, which are reported inside the envelope.
var ErrNotInitialized = errors.New("memory client not initialized")

// MemoryClient is the slice of the memory client the bridge depends on.
type MemoryClient interface {
	Add(ctx context.Context, messages []model.Message, userID string, metadata map[string]any) ([]model.Record, error)
	Search(ctx context.Context, query, userID string, limit int) ([]model.Record, error)
	GetAll(ctx context.Context, userID string) ([]model.Record, error)
	Update(ctx context.Context, memoryID string, data map[string]any) (model.Record, error)
	Delete(ctx context.Context, memoryID string) error
}

// Bridge mediates CLI commands and the composed memory client.
type Bridge struct {
	cfg     *config.Config
	client  MemoryClient
	state   State
	initErr error
}

// New returns an uninitialized bridge. Call Initialize before data operations.
func New(cfg *config.Config) *Bridge {
	return &Bridge{cfg: cfg}
}

// Initialize constructs the memory client from the registered plugins.
// Failures are recorded rather than returned so the process can still answer
// the health command and report its degraded state.
func (b *Bridge) Initialize(ctx context.Context) {
	if b.state != StateUninitialized {
		return
	}
	b.state = StateFailed

	if strings.TrimSpace(b.cfg.OpenAIAPIKey) == "" {
		b.fail(fmt.Errorf("OPENAI_API_KEY environment variable is required"))
		return
	}

	loadVector, err := registryvector.Select(b.cfg.VectorType)
	if err != nil {
		b.fail(err)
		return
	}
	vector, err := loadVector(ctx)
	if err != nil {
		b.fail(err)
		return
	}

	// Soft connectivity probe: a failure here is logged and swallowed so a
	// temporarily unreachable vector store does not hide the real error from
	// the migration step below.
	if !b.cfg.SkipConnectivityCheck {
		probeCtx, cancel := context.WithTimeout(ctx, b.cfg.QdrantStartupTimeout)
		if err := vector.Ping(probeCtx); err != nil {
			log.Warn("Vector store connectivity check failed", "store", vector.Name(), "err", err)
		} else {
			log.Info("Vector store connectivity check passed", "store", vector.Name())
		}
		cancel()
	}

	if err := vector.Migrate(ctx); err != nil {
		b.fail(err)
		return
	}

	loadEmbed, err := registryembed.Select(b.cfg.EmbedType)
	if err != nil {
		b.fail(err)
		return
	}
	embedder, err := loadEmbed(ctx)
	if err != nil {
		b.fail(err)
		return
	}

	var graph registrygraph.GraphStore
	if b.cfg.GraphEnabled() {
		loadGraph, err := registrygraph.Select(b.cfg.GraphKind)
		if err != nil {
			b.fail(err)
			return
		}
		if graph, err = loadGraph(ctx); err != nil {
			b.fail(err)
			return
		}
	}

	b.client = memory.New(embedder, vector, graph)
	b.state = StateReady
	b.initErr = nil
	log.Info("Memory client initialized",
		"vector", b.cfg.VectorType, "embedder", b.cfg.EmbedType, "graph", b.cfg.GraphKind)
}

func (b *Bridge) fail(err error) {
	b.initErr = err
	log.Error("Initialization failed", "err", err)
}

// AddMemory stores messages for a user. Caller metadata is merged with the
// generated timestamp, source and user_id fields, which always win.
func (b *Bridge) AddMemory(ctx context.Context, messages []model.Message, userID string, metadata map[string]any) (Envelope, error) {
	if b.state != StateReady {
		return Envelope{}, ErrNotInitialized
	}

	merged := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		merged[k] = v
	}
	merged["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	merged["source"] = b.cfg.SourceTag
	merged["user_id"] = userID

	records, err := b.client.Add(ctx, messages, userID, merged)
	if err != nil {
		log.Error("Add memory failed", "userId", userID, "err", err)
		return errorEnvelope(err), nil
	}
	log.Info("Memory added", "userId", userID, "count", len(records))
	return resultEnvelope(records), nil
}

// SearchMemory runs a semantic search scoped to the user.
func (b *Bridge) SearchMemory(ctx context.Context, query, userID string, limit int) (Envelope, error) {
	if b.state != StateReady {
		return Envelope{}, ErrNotInitialized
	}
	records, err := b.client.Search(ctx, query, userID, limit)
	if err != nil {
		log.Error("Search memory failed", "userId", userID, "err", err)
		return errorEnvelope(err), nil
	}
	log.Info("Memory search completed", "userId", userID, "found", len(records))
	return resultsEnvelope(records), nil
}

// GetAllMemories lists every memory stored for the user.
func (b *Bridge) GetAllMemories(ctx context.Context, userID string) (Envelope, error) {
	if b.state != StateReady {
		return Envelope{}, ErrNotInitialized
	}
	records, err := b.client.GetAll(ctx, userID)
	if err != nil {
		log.Error("Get all memories failed", "userId", userID, "err", err)
		return errorEnvelope(err), nil
	}
	log.Info("Memories retrieved", "userId", userID, "count", len(records))
	return resultsEnvelope(records), nil
}

// UpdateMemory applies a partial update to a single memory.
func (b *Bridge) UpdateMemory(ctx context.Context, memoryID string, data map[string]any) (Envelope, error) {
	if b.state != StateReady {
		return Envelope{}, ErrNotInitialized
	}
	rec, err := b.client.Update(ctx, memoryID, data)
	if err != nil {
		log.Error("Update memory failed", "memoryId", memoryID, "err", err)
		return errorEnvelope(err), nil
	}
	log.Info("Memory updated", "memoryId", memoryID)
	return resultEnvelope(rec), nil
}

// DeleteMemory removes a single memory.
func (b *Bridge) DeleteMemory(ctx context.Context, memoryID string) (Envelope, error) {
	if b.state != StateReady {
		return Envelope{}, ErrNotInitialized
	}
	if err := b.client.Delete(ctx, memoryID); err != nil {
		log.Error("Delete memory failed", "memoryId", memoryID, "err", err)
		return errorEnvelope(err), nil
	}
	log.Info("Memory deleted", "memoryId", memoryID)
	return resultEnvelope(map[string]any{"memory_id": memoryID, "deleted": true}), nil
}

// HealthCheck reports initialization state and, when ready, runs a lightweight
// search probe. It never fails: probe errors are reported inside the status.
func (b *Bridge) HealthCheck(ctx context.Context) Envelope {
	status := HealthStatus{
		Initialized: b.state == StateReady,
		Timestamp:   time.Now().UTC(),
		Config: ProviderConfig{
			VectorStore: b.cfg.VectorType,
			GraphStore:  b.cfg.GraphKind,
			Embedder:    b.cfg.EmbedType,
		},
	}
	if b.state != StateReady {
		status.TestResult = "memory client not initialized"
		if b.initErr != nil {
			status.TestResult = fmt.Sprintf("memory client not initialized: %v", b.initErr)
		}
		return Envelope{Success: true, Status: &status}
	}

	records, err := b.client.Search(ctx, "test", "health_check", 1)
	if err != nil {
		log.Error("Health probe failed", "err", err)
		status.TestResult = fmt.Sprintf("search probe failed: %v", err)
	} else {
		status.Functional = true
		status.TestResult = fmt.Sprintf("search probe succeeded: %d results", len(records))
	}
	return Envelope{Success: true, Status: &status}
}
