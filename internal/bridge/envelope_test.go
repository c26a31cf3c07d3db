package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/autoweave/mem0-bridge/internal/model"
	"github.com/stretchr/testify/require"
)

// Every envelope must carry exactly one body key alongside "success".
func TestEnvelope_ExactlyOneBodyKey(t *testing.T) {
	cases := map[string]Envelope{
		"result":  resultEnvelope(map[string]any{"ok": true}),
		"results": resultsEnvelope([]model.Record{{ID: "m1"}}),
		"error":   errorEnvelope(errors.New("boom")),
	}
	for want, env := range cases {
		out, err := json.Marshal(env)
		require.NoError(t, err)

		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &decoded))
		require.Len(t, decoded, 2, "envelope %q", want)
		require.Contains(t, decoded, "success")
		require.Contains(t, decoded, want)
	}
}

func TestErrorEnvelope(t *testing.T) {
	env := errorEnvelope(errors.New("downstream broke"))
	require.False(t, env.Success)
	require.Equal(t, "downstream broke", env.Error)
	require.Nil(t, env.Result)
	require.Nil(t, env.Results)
}
