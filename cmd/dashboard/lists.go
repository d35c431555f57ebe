package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/session"
)

// resolveState maps a --state flag onto a tracked state code; empty means any state.
func resolveState(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	st, ok := domain.LookupState(raw)
	if !ok {
		return "", fmt.Errorf("unknown state %q", raw)
	}
	return st.Abbreviation, nil
}

func missingCmd(rt *app) *cobra.Command {
	var (
		state  string
		search string
		pages  int
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "missing",
		Short: "List casinos missing from the catalog",
		Long: `List missing casinos, loaded one page window at a time.

Filter by --state (NJ, MI, PA, WV) and --search (name or source, case-insensitive).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := resolveState(state)
			if err != nil {
				return err
			}
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				view, err := s.MissingCasinos.SetFilters(ctx, casinos.Filters{
					State:  code,
					Search: search,
				})
				if err != nil {
					return fmt.Errorf("failed to load missing casinos: %w", err)
				}
				for (all || view.Pages < pages) && view.HasMore {
					if view, err = s.MissingCasinos.FetchNextPage(ctx); err != nil {
						return fmt.Errorf("failed to load next page: %w", err)
					}
				}
				renderMissingCasinos(cmd.OutOrStdout(), view.Items, view.Total, view.HasMore)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state abbreviation")
	cmd.Flags().StringVar(&search, "search", "", "name or source search")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().BoolVar(&all, "all", false, "load every page")
	return cmd
}

func comparisonsCmd(rt *app) *cobra.Command {
	var (
		status      string
		insight     string
		state       string
		casino      string
		offerType   string
		promotionID string
		page        int
	)
	cmd := &cobra.Command{
		Use:   "comparisons",
		Short: "List promotion comparisons",
		Long: `List promotion comparisons, one page at a time.

--status accepts pending (default), updated, reviewed, ignored or all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 1 {
				return fmt.Errorf("page must be at least 1, got %d", page)
			}
			code, err := resolveState(state)
			if err != nil {
				return err
			}
			f := promotions.DefaultFilters()
			f.Status = promotions.ComparisonStatus(status)
			if status == "all" {
				f.Status = ""
			}
			f.Insight = promotions.ComparisonType(insight)
			f.State = code
			f.Casino = casino
			f.OfferType = offerType
			f.PromotionID = promotionID

			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				f.Limit = rt.cfg.Client.ComparisonsPerPage
				view, err := s.Comparisons.SetFilters(ctx, f)
				if err == nil && page > 1 {
					view, err = s.Comparisons.SetPage(ctx, page)
				}
				if err != nil {
					return fmt.Errorf("failed to load comparisons: %w", err)
				}
				p := view.Pagination
				renderComparisons(cmd.OutOrStdout(), view.Items, p.Page, p.TotalPages, p.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", string(promotions.StatusPending), "comparison status or all")
	cmd.Flags().StringVar(&insight, "insight", "", "comparison type (new, better, alternative)")
	cmd.Flags().StringVar(&state, "state", "", "state abbreviation")
	cmd.Flags().StringVar(&casino, "casino", "", "casino name substring")
	cmd.Flags().StringVar(&offerType, "offer-type", "", "discovered offer type")
	cmd.Flags().StringVar(&promotionID, "promotion-id", "", "exact comparison id")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func compareCmd(rt *app) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "compare <id> <update|add|ignore>",
		Short: "Apply a review action to a comparison",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := promotions.ParseAction(args[1])
			if err != nil {
				return err
			}
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := s.Comparisons.Apply(ctx, args[0], action, notes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", res.Comparison.ID, res.Comparison.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "reviewer notes")
	return cmd
}

func usersCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List backend users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				list, err := s.Users.Load(ctx)
				if err != nil {
					return fmt.Errorf("failed to load users: %w", err)
				}
				renderUsers(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
}

func overviewCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Load every dashboard view at once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withSession(cmd, func(ctx context.Context, s *session.Session) error {
				ov, err := s.Overview(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				renderSnapshot(out, ov.Snapshot)
				fmt.Fprintln(out)
				renderMissingCasinos(out, ov.MissingCasinos.Items, ov.MissingCasinos.Total, ov.MissingCasinos.HasMore)
				fmt.Fprintln(out)
				p := ov.Comparisons.Pagination
				renderComparisons(out, ov.Comparisons.Items, p.Page, p.TotalPages, p.Total)
				fmt.Fprintln(out)
				renderUsers(out, ov.Users)
				return nil
			})
		},
	}
}
