// Command tactics is the entry point for `go install` of the module root.
// It is identical to ./cmd/game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tatianab/tactics-game/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.GetRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
