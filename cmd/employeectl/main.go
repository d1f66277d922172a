package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finclutech/employee-service/internal/bootstrap"
	"github.com/finclutech/employee-service/internal/config"
	"github.com/finclutech/employee-service/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:          "employeectl",
	Short:        "employee service administration",
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, exportCmd)
}

// openApp loads configuration from the environment and wires the services.
// The caller must Close the returned app and Sync the logger.
func openApp(ctx context.Context, adjust func(*config.Config)) (*bootstrap.App, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, err
	}

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return app, logger, nil
}
