package http

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/techforgyms/techforgyms_backend/config"
	"github.com/techforgyms/techforgyms_backend/internal/api/http/router"
	"github.com/techforgyms/techforgyms_backend/internal/app"
)

// Run builds the edge graph and blocks until SIGINT/SIGTERM. A graph that
// fails to build (bad config, unreachable Postgres) is returned as an error.
func Run(cfg *config.Config, grace time.Duration) error {
	edge := fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,
		fx.Invoke(func(*fiber.App) {}),
		fx.StopTimeout(grace),
		fx.WithLogger(func() fxevent.Logger { return &fxevent.SlogLogger{Logger: slog.Default()} }),
	)
	if err := edge.Err(); err != nil {
		return fmt.Errorf("build edge: %w", err)
	}
	edge.Run()
	return nil
}
