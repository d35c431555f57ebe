package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	appVersion  = "dev"
	serviceName = "casino-research-dashboard"
)

func newRootCmd() *cobra.Command {
	rt := newApp()
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Casino research dashboard client",
		Long: `dashboard keeps a client session in sync with the casino research backend:
per-state statistics, the research job, missing casinos and promotion comparisons.

Point it at a backend with --api-base-url, or pass --mocks to run against an
in-process mock backend.`,
		SilenceUsage:      true,
		PersistentPreRunE: rt.init,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&rt.cfgFile, "config", "", "config file (yaml)")
	flags.String(keyBaseURL, "", "backend base URL (env API_BASE_URL)")
	flags.Bool(keyMocks, false, "serve an in-process mock backend (env ENABLE_MOCKS)")
	flags.Duration(keyPollInterval, 0, "stats poll interval while research runs (env POLL_INTERVAL)")
	flags.Duration(keyRequestTimeout, 0, "timeout for a single backend call (env REQUEST_TIMEOUT)")
	flags.Bool(keyMockDelay, true, "simulate backend latency in mock mode (env MOCK_DELAY_ENABLED)")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "text", "log format (text, json)")
	rt.bindFlags(cmd)

	cmd.AddCommand(statsCmd(rt))
	cmd.AddCommand(researchCmd(rt))
	cmd.AddCommand(watchCmd(rt))
	cmd.AddCommand(missingCmd(rt))
	cmd.AddCommand(comparisonsCmd(rt))
	cmd.AddCommand(compareCmd(rt))
	cmd.AddCommand(usersCmd(rt))
	cmd.AddCommand(overviewCmd(rt))
	cmd.AddCommand(versionCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serviceName, appVersion)
		},
	}
}
