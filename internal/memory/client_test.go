package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/autoweave/mem0-bridge/internal/model"
	registryvector "github.com/autoweave/mem0-bridge/internal/registry/vector"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	calls [][]string
	err   error
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i + 1)}
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-model" }
func (f *fakeEmbedder) Dimension() int    { return 1 }

type fakeVector struct {
	upserts []registryvector.UpsertRequest

	searchRecords []model.Record
	gotEmbedding  []float32
	gotUserID     string
	gotLimit      int

	listRecords []model.Record

	getRecord model.Record
	getErr    error

	updatedID        string
	updatedRecord    model.Record
	updatedEmbedding []float32

	deletedID string
}

func (f *fakeVector) Migrate(context.Context) error { return nil }
func (f *fakeVector) Ping(context.Context) error    { return nil }
func (f *fakeVector) Name() string                  { return "fake" }

func (f *fakeVector) Upsert(_ context.Context, reqs []registryvector.UpsertRequest) error {
	f.upserts = append(f.upserts, reqs...)
	return nil
}

func (f *fakeVector) Search(_ context.Context, embedding []float32, userID string, limit int) ([]model.Record, error) {
	f.gotEmbedding, f.gotUserID, f.gotLimit = embedding, userID, limit
	return f.searchRecords, nil
}

func (f *fakeVector) List(_ context.Context, userID string) ([]model.Record, error) {
	f.gotUserID = userID
	return f.listRecords, nil
}

func (f *fakeVector) Get(_ context.Context, id string) (model.Record, error) {
	return f.getRecord, f.getErr
}

func (f *fakeVector) Update(_ context.Context, id string, rec model.Record, embedding []float32) error {
	f.updatedID, f.updatedRecord, f.updatedEmbedding = id, rec, embedding
	return nil
}

func (f *fakeVector) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeGraph struct {
	linked    []model.Record
	unlinked  []string
	linkErr   error
	unlinkErr error
}

func (f *fakeGraph) LinkMemory(_ context.Context, rec model.Record) error {
	f.linked = append(f.linked, rec)
	return f.linkErr
}

func (f *fakeGraph) UnlinkMemory(_ context.Context, id string) error {
	f.unlinked = append(f.unlinked, id)
	return f.unlinkErr
}

func (f *fakeGraph) Close(context.Context) error { return nil }
func (f *fakeGraph) Name() string                { return "fake" }

func TestAdd_EmbedsAndStoresNonEmptyMessages(t *testing.T) {
	embedder := &fakeEmbedder{}
	vector := &fakeVector{}
	graph := &fakeGraph{}
	c := New(embedder, vector, graph)

	messages := []model.Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "   "},
		{Role: "user", Content: " world "},
	}
	metadata := map[string]any{"source": "autoweave"}
	records, err := c.Add(t.Context(), messages, "user1", metadata)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, [][]string{{"hello", "world"}}, embedder.calls)
	require.Len(t, vector.upserts, 2)
	for i, rec := range records {
		_, err := uuid.Parse(rec.ID)
		require.NoError(t, err)
		require.Equal(t, "user1", rec.UserID)
		require.Equal(t, metadata, rec.Metadata)
		require.False(t, rec.CreatedAt.IsZero())
		require.Equal(t, rec, vector.upserts[i].Record)
	}
	require.Equal(t, "hello", records[0].Memory)
	require.Equal(t, "world", records[1].Memory)
	require.Equal(t, records, graph.linked)
}

func TestAdd_NoContentFails(t *testing.T) {
	c := New(&fakeEmbedder{}, &fakeVector{}, nil)
	_, err := c.Add(t.Context(), []model.Message{{Role: "user", Content: "  "}}, "user1", nil)
	require.ErrorContains(t, err, "no message content")
}

func TestAdd_GraphFailureIsIgnored(t *testing.T) {
	graph := &fakeGraph{linkErr: fmt.Errorf("memgraph: link memory: down")}
	c := New(&fakeEmbedder{}, &fakeVector{}, graph)

	records, err := c.Add(t.Context(), []model.Message{{Role: "user", Content: "hi"}}, "user1", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestSearch_DefaultsLimit(t *testing.T) {
	vector := &fakeVector{searchRecords: []model.Record{{ID: "m1"}}}
	c := New(&fakeEmbedder{}, vector, nil)

	records, err := c.Search(t.Context(), "hello", "user1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 10, vector.gotLimit)
	require.Equal(t, "user1", vector.gotUserID)
	require.NotEmpty(t, vector.gotEmbedding)
}

func TestGetAll(t *testing.T) {
	vector := &fakeVector{listRecords: []model.Record{{ID: "m1"}, {ID: "m2"}}}
	c := New(&fakeEmbedder{}, vector, nil)

	records, err := c.GetAll(t.Context(), "user1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "user1", vector.gotUserID)
}

func TestUpdate_ChangedTextIsReembedded(t *testing.T) {
	embedder := &fakeEmbedder{}
	vector := &fakeVector{getRecord: model.Record{ID: "m1", Memory: "old", UserID: "user1"}}
	c := New(embedder, vector, nil)

	rec, err := c.Update(t.Context(), "m1", map[string]any{"memory": "new", "priority": 2.0})
	require.NoError(t, err)
	require.Equal(t, "new", rec.Memory)
	require.Equal(t, 2.0, rec.Metadata["priority"])
	require.NotNil(t, rec.UpdatedAt)

	require.Equal(t, "m1", vector.updatedID)
	require.NotNil(t, vector.updatedEmbedding)
	require.Len(t, embedder.calls, 1)
}

func TestUpdate_MetadataOnlyKeepsVector(t *testing.T) {
	embedder := &fakeEmbedder{}
	vector := &fakeVector{getRecord: model.Record{ID: "m1", Memory: "old"}}
	c := New(embedder, vector, nil)

	rec, err := c.Update(t.Context(), "m1", map[string]any{"tag": "x"})
	require.NoError(t, err)
	require.Equal(t, "old", rec.Memory)
	require.Equal(t, "x", rec.Metadata["tag"])
	require.Nil(t, vector.updatedEmbedding)
	require.Empty(t, embedder.calls)
}

func TestUpdate_MissingRecordFails(t *testing.T) {
	vector := &fakeVector{getErr: fmt.Errorf("qdrant: memory m1 not found")}
	c := New(&fakeEmbedder{}, vector, nil)

	_, err := c.Update(t.Context(), "m1", map[string]any{"memory": "new"})
	require.ErrorContains(t, err, "not found")
}

func TestDelete_RemovesFromBothStores(t *testing.T) {
	vector := &fakeVector{}
	graph := &fakeGraph{}
	c := New(&fakeEmbedder{}, vector, graph)

	require.NoError(t, c.Delete(t.Context(), "m1"))
	require.Equal(t, "m1", vector.deletedID)
	require.Equal(t, []string{"m1"}, graph.unlinked)
}

func TestDelete_GraphFailureIsIgnored(t *testing.T) {
	graph := &fakeGraph{unlinkErr: fmt.Errorf("memgraph: unlink memory: down")}
	c := New(&fakeEmbedder{}, &fakeVector{}, graph)

	require.NoError(t, c.Delete(t.Context(), "m1"))
}
