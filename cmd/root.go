package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Discovers internship listings across job boards, career pages, and tracked repositories.",
		Long: `tracker is the ingestion tool for the internship tracker. It queries
structured ATS job-board APIs, scrapes configured career pages with
polite rate limiting and robots.txt checks, and diffs community-maintained
listing tables, writing each run's raw results to a timestamped snapshot.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus TRACKER_* env vars)")
	cmd.AddCommand(newDiscoverCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
