package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/autoweave/mem0-bridge/internal/bridge"
	"github.com/autoweave/mem0-bridge/internal/config"
	"github.com/autoweave/mem0-bridge/internal/model"
	"github.com/urfave/cli/v3"

	// Import all plugins to trigger init() registration
	_ "github.com/autoweave/mem0-bridge/internal/plugin/embed/openai"
	_ "github.com/autoweave/mem0-bridge/internal/plugin/graph/memgraph"
	_ "github.com/autoweave/mem0-bridge/internal/plugin/vector/qdrant"
)

const defaultSearchLimit = 10

// Commands returns the bridge verb commands. They share one Config bound to
// the flags and environment variables; only one command runs per process.
func Commands() []*cli.Command {
	cfg := config.DefaultConfig()
	return []*cli.Command{
		addCommand(&cfg),
		searchCommand(&cfg),
		getAllCommand(&cfg),
		updateCommand(&cfg),
		deleteCommand(&cfg),
		healthCommand(&cfg),
	}
}

func addCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a memory for a user",
		ArgsUsage: "<user_id> <message> [metadata-json]",
		Flags:     flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 2 {
				return fmt.Errorf("usage: add <user_id> <message> [metadata-json]")
			}
			metadata, err := parseMetadata(args.Get(2))
			if err != nil {
				return err
			}
			b, ctx := newBridge(ctx, cfg)
			messages := []model.Message{{Role: "user", Content: args.Get(1)}}
			env, err := b.AddMemory(ctx, messages, args.Get(0), metadata)
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

func searchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a user's memories",
		ArgsUsage: "<user_id> <query> [limit]",
		Flags:     flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 2 {
				return fmt.Errorf("usage: search <user_id> <query> [limit]")
			}
			limit, err := parseLimit(args.Get(2))
			if err != nil {
				return err
			}
			b, ctx := newBridge(ctx, cfg)
			env, err := b.SearchMemory(ctx, args.Get(1), args.Get(0), limit)
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

func getAllCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "get_all",
		Usage:     "List all memories for a user",
		ArgsUsage: "<user_id>",
		Flags:     flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 {
				return fmt.Errorf("usage: get_all <user_id>")
			}
			b, ctx := newBridge(ctx, cfg)
			env, err := b.GetAllMemories(ctx, args.Get(0))
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

func updateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a memory",
		ArgsUsage: "<memory_id> <data-json>",
		Flags:     flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 2 {
				return fmt.Errorf("usage: update <memory_id> <data-json>")
			}
			data, err := parseData(args.Get(1))
			if err != nil {
				return err
			}
			b, ctx := newBridge(ctx, cfg)
			env, err := b.UpdateMemory(ctx, args.Get(0), data)
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

func deleteCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a memory",
		ArgsUsage: "<memory_id>",
		Flags:     flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 1 {
				return fmt.Errorf("usage: delete <memory_id>")
			}
			b, ctx := newBridge(ctx, cfg)
			env, err := b.DeleteMemory(ctx, args.Get(0))
			if err != nil {
				return err
			}
			return printEnvelope(env)
		},
	}
}

func healthCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Report bridge initialization and probe status",
		Flags: flags(cfg),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b, ctx := newBridge(ctx, cfg)
			return printEnvelope(b.HealthCheck(ctx))
		},
	}
}

// newBridge attaches the config to the context and initializes the bridge.
// Initialization failures are deliberately not returned: they surface either
// through the health status or as the not-initialized error on data verbs.
func newBridge(ctx context.Context, cfg *config.Config) (*bridge.Bridge, context.Context) {
	ctx = config.WithContext(ctx, cfg)
	b := bridge.New(cfg)
	b.Initialize(ctx)
	return b, ctx
}

// printEnvelope writes the single JSON object this process emits on stdout.
func printEnvelope(env bridge.Envelope) error {
	return json.NewEncoder(os.Stdout).Encode(env)
}

func parseMetadata(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return metadata, nil
}

func parseData(raw string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}
	return data, nil
}

func parseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultSearchLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	return limit, nil
}
