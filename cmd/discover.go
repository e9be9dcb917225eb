// Package cmd defines and implements the CLI commands for the tracker
// executable.
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/config"
	"github.com/ctsc/internship-tracker/internal/discovery"
	"github.com/ctsc/internship-tracker/internal/logging"
)

// newDiscoverCmd creates and configures the 'discover' subcommand. It runs
// one full discovery pass over every configured source.
func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Runs one discovery pass over all configured sources",
		Long: `Fans out concurrently across every configured Greenhouse, Lever, and
Ashby board, every scraped career page, and every monitored repository,
then writes the combined raw listings to a snapshot file under the data
directory.`,
		RunE: runDiscoverCommand,
	}
}

func runDiscoverCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := discovery.Build(cfg, logger)
	found := engine.DiscoverAll(ctx)

	logger.Info("discover command finished",
		zap.Int("sources", cfg.TotalSources()),
		zap.Int("listings", len(found)))
	return nil
}
