package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tinytasks/internal/repositories"
	"github.com/desertthunder/tinytasks/internal/server"
	"github.com/desertthunder/tinytasks/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the development task store until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	if cmd.IsSet("host") {
		cfg.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("db") {
		cfg.Database.Path = cmd.String("db")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := shared.OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewTaskRouter(
		repositories.NewTaskRepository(db),
		logger,
		server.NewLimiter(cfg.Server.RateLimit, cfg.Server.Burst),
	)

	logger.Info("serving tasks", "addr", cfg.Addr(), "db", cfg.Database.Path, "routes", router.Routes())
	return server.New(cfg.Addr(), router, logger).Run(ctx)
}
