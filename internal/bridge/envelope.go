package bridge

import (
	"time"

	"github.com/autoweave/mem0-bridge/internal/model"
)

// Envelope is the uniform response shape printed for every operation.
// Exactly one of Result, Results, Error or Status is populated, keyed to
// Success.
type Envelope struct {
	Success bool          `json:"success"`
	Result  any           `json:"result,omitempty"`
	Results any           `json:"results,omitempty"`
	Error   string        `json:"error,omitempty"`
	Status  *HealthStatus `json:"status,omitempty"`
}

// HealthStatus describes the bridge's initialization and probe state.
type HealthStatus struct {
	Initialized bool           `json:"initialized"`
	Timestamp   time.Time      `json:"timestamp"`
	Config      ProviderConfig `json:"config"`
	Functional  bool           `json:"functional"`
	TestResult  string         `json:"test_result"`
}

// ProviderConfig names the configured backend providers.
type ProviderConfig struct {
	VectorStore string `json:"vector_store"`
	GraphStore  string `json:"graph_store"`
	Embedder    string `json:"embedder"`
}

func resultEnvelope(result any) Envelope {
	return Envelope{Success: true, Result: result}
}

// resultsEnvelope wraps a record list; an empty list serializes as [] rather
// than being omitted.
func resultsEnvelope(records []model.Record) Envelope {
	if records == nil {
		records = []model.Record{}
	}
	return Envelope{Success: true, Results: records}
}

func errorEnvelope(err error) Envelope {
	return Envelope{Success: false, Error: err.Error()}
}
