package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/autoweave/mem0-bridge/internal/cmd/ops"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:     "mem0-bridge",
		Usage:    "CLI bridge to a self-hosted memory stack (Qdrant + OpenAI embeddings)",
		Commands: ops.Commands(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("missing command")
			}
			return fmt.Errorf("unknown command: %s", cmd.Args().First())
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		fail(err)
	}
}

// fail emits the dispatcher-level error envelope. Operation failures are
// instead reported inside a {success: false} envelope and exit 0.
func fail(err error) {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Println(string(out))
	os.Exit(1)
}
