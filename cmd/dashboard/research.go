package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/session"
)

const watchCheckInterval = 250 * time.Millisecond

func statsCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-state statistics",
		Long:  `Fetch the state statistics snapshot and print it with totals and the research schedule.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				snap, err := s.Dashboard.Refetch(ctx)
				if err != nil {
					return fmt.Errorf("failed to load state stats: %w", err)
				}
				renderSnapshot(cmd.OutOrStdout(), snap)
				return nil
			})
		},
	}
}

func researchCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:       "research <start|stop|toggle>",
		Short:     "Start or stop the research job",
		Long:      `Start or stop the research job. toggle stops a running job and starts one otherwise.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"start", "stop", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := runResearch(ctx, s, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", res.Status)
				return nil
			})
		},
	}
}

func runResearch(ctx context.Context, s *session.Session, raw string) (dashboard.ResearchStatus, error) {
	if raw == "toggle" {
		if _, err := s.Dashboard.Refetch(ctx); err != nil {
			return dashboard.ResearchStatus{}, fmt.Errorf("failed to load state stats: %w", err)
		}
		return s.Dashboard.ToggleResearch(ctx)
	}
	action, err := dashboard.ParseResearchAction(raw)
	if err != nil {
		return dashboard.ResearchStatus{}, err
	}
	return s.Dashboard.Research(ctx, action)
}

func watchCmd(rt *app) *cobra.Command {
	var (
		start     bool
		untilIdle bool
		timeout   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow state statistics while research runs",
		Long: `Poll state statistics while any state is researching and print a line per snapshot.

With --until-idle (the default) the command returns once research completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			cmd.SetContext(ctx)

			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				if start {
					if _, err := s.Dashboard.Research(ctx, dashboard.ActionStart); err != nil {
						return err
					}
				}
				s.Start()
				err := watchSnapshots(ctx, s, cmd, untilIdle)
				if errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("research still running after %s", timeout)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&start, "start", false, "start a research job before watching")
	cmd.Flags().BoolVar(&untilIdle, "until-idle", true, "return once no state is researching")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 waits indefinitely)")
	return cmd
}

func watchSnapshots(ctx context.Context, s *session.Session, cmd *cobra.Command, untilIdle bool) error {
	ticker := time.NewTicker(watchCheckInterval)
	defer ticker.Stop()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ctx.Err()
			}
			return nil
		case <-ticker.C:
		}

		st := s.Dashboard.State()
		if !st.HasData {
			continue
		}
		if !st.Data.Timestamp.Equal(last) {
			last = st.Data.Timestamp
			renderWatchLine(cmd.OutOrStdout(), st.Data)
		}
		if untilIdle && !s.Dashboard.ShouldPoll() {
			return nil
		}
	}
}
