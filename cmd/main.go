package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/tinytasks/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})
	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrRateLimited) {
			logger.Warn("task store is throttling requests, try again shortly")
		}
		logger.Fatalf("application error: %v", err)
	}
}
