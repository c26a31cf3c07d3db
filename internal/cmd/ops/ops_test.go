package ops

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:     "mem0-bridge",
		Commands: Commands(),
	}
}

func TestCommands_MissingRequiredArguments(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"add no args", []string{"add"}},
		{"add missing message", []string{"add", "user1"}},
		{"search missing query", []string{"search", "user1"}},
		{"get_all no args", []string{"get_all"}},
		{"update missing data", []string{"update", "mem1"}},
		{"delete no args", []string{"delete"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := rootCommand().Run(t.Context(), append([]string{"mem0-bridge"}, tc.args...))
			require.Error(t, err)
			require.Contains(t, err.Error(), "usage:")
		})
	}
}

func TestAddCommand_MalformedMetadata(t *testing.T) {
	err := rootCommand().Run(t.Context(), []string{"mem0-bridge", "add", "user1", "hi", "{not-json"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse metadata")
}

func TestUpdateCommand_MalformedData(t *testing.T) {
	err := rootCommand().Run(t.Context(), []string{"mem0-bridge", "update", "mem1", "{not-json"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse data")
}

func TestSearchCommand_InvalidLimit(t *testing.T) {
	err := rootCommand().Run(t.Context(), []string{"mem0-bridge", "search", "user1", "hello", "lots"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid limit")
}

func TestParseMetadata(t *testing.T) {
	metadata, err := parseMetadata("")
	require.NoError(t, err)
	require.Empty(t, metadata)

	metadata, err = parseMetadata(`{"tag":"x","n":2}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"tag": "x", "n": 2.0}, metadata)

	_, err = parseMetadata(`[1,2]`)
	require.Error(t, err)
}

func TestParseData(t *testing.T) {
	data, err := parseData(`{"memory":"new text"}`)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"memory": "new text"}, data)

	_, err = parseData("")
	require.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	limit, err := parseLimit("")
	require.NoError(t, err)
	require.Equal(t, defaultSearchLimit, limit)

	limit, err = parseLimit("5")
	require.NoError(t, err)
	require.Equal(t, 5, limit)

	_, err = parseLimit("0")
	require.Error(t, err)
	_, err = parseLimit("-3")
	require.Error(t, err)
	_, err = parseLimit("abc")
	require.Error(t, err)
}
