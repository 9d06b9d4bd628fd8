package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Iron-Ham/scanform/internal/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		// Cobra has already printed the error
		return 1
	}
	return 0
}
