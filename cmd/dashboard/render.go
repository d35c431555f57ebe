package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/casinos"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/dashboard"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/promotions"
	"github.com/preston-bernstein/casino-research-dashboard/internal/domain/users"
	"github.com/preston-bernstein/casino-research-dashboard/internal/notify"
	"github.com/preston-bernstein/casino-research-dashboard/internal/timeutil"
)

const clockLayout = "15:04:05"

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(notify.SubtleColor)
	activeStyle  = lipgloss.NewStyle().Foreground(notify.WarningColor).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(notify.SuccessColor)
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func heading(out io.Writer, title string) {
	fmt.Fprintln(out, headingStyle.Render(title))
}

func optionalCount(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func researchLabel(snap dashboard.Snapshot) string {
	if snap.AnyResearching() {
		return activeStyle.Render("researching")
	}
	return idleStyle.Render("idle")
}

func renderSnapshot(out io.Writer, snap dashboard.Snapshot) {
	heading(out, "State statistics")
	w := newTable(out)
	fmt.Fprintln(w, "STATE\tCASINOS\tPROMOTIONS\tMISSING\tPENDING\tSTATUS\tUPDATED")
	for _, stat := range snap.Data {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			stat.State.Abbreviation,
			stat.CasinosTracked,
			stat.PromotionsActive,
			optionalCount(stat.MissingCasinos),
			optionalCount(stat.PendingComparisons),
			stat.Status,
			stat.LastUpdated.Local().Format(clockLayout),
		)
	}
	_ = w.Flush()
	renderTotals(out, snap)
}

func renderTotals(out io.Writer, snap dashboard.Snapshot) {
	t := snap.Totals()
	sched := snap.Schedule()
	fmt.Fprintf(out, "Totals: %d casinos tracked, %d active promotions, %d missing casinos, %d pending comparisons\n",
		t.CasinosTracked, t.PromotionsActive, t.MissingCasinos, t.PendingComparisons)
	fmt.Fprintf(out, "Research: %s\n", researchLabel(snap))
	fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("Last run %s, next run %s",
		sched.LastRun.Local().Format(time.DateTime), sched.NextRun.Local().Format(time.DateTime))))
}

func renderWatchLine(out io.Writer, snap dashboard.Snapshot) {
	parts := make([]string, 0, len(snap.Data))
	for _, stat := range snap.Data {
		parts = append(parts, fmt.Sprintf("%s %d/%d", stat.State.Abbreviation, stat.CasinosTracked, stat.PromotionsActive))
	}
	t := snap.Totals()
	fmt.Fprintf(out, "%s %s  %s  missing=%d pending=%d\n",
		subtleStyle.Render(snap.Timestamp.Local().Format(clockLayout)),
		researchLabel(snap),
		strings.Join(parts, "  "),
		t.MissingCasinos, t.PendingComparisons,
	)
}

func renderMissingCasinos(out io.Writer, items []casinos.MissingCasino, total int, hasMore bool) {
	if len(items) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("No missing casinos match the filters."))
		return
	}
	heading(out, "Missing casinos")
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tSOURCE\tPROMOTIONS\tDISCOVERED")
	for _, c := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			c.ID, c.Name, c.State.Abbreviation, c.Source, c.PromotionsFound, timeutil.FormatDate(c.DiscoveredAt))
	}
	_ = w.Flush()
	footer := fmt.Sprintf("Showing %d of %d", len(items), total)
	if hasMore {
		footer += " (more available)"
	}
	fmt.Fprintln(out, subtleStyle.Render(footer))
}

func offerSummary(p *promotions.Promotion) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s, $%.0f/$%.0f)", p.OfferName, p.OfferType, p.ExpectedDeposit, p.ExpectedBonus)
}

func renderComparisons(out io.Writer, items []promotions.Comparison, page int, totalPages int, total int) {
	if len(items) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("No comparisons match the filters."))
		return
	}
	heading(out, "Promotion comparisons")
	w := newTable(out)
	fmt.Fprintln(w, "ID\tCASINO\tSTATE\tTYPE\tSTATUS\tCURRENT\tDISCOVERED")
	for _, c := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.Casino.Name,
			c.Casino.State.Abbreviation,
			c.ComparisonType,
			c.Status,
			offerSummary(c.CurrentPromotion),
			offerSummary(&c.DiscoveredPromotion),
		)
	}
	_ = w.Flush()
	fmt.Fprintln(out, subtleStyle.Render(fmt.Sprintf("Page %d of %d, %d comparisons", page, totalPages, total)))
}

func renderUsers(out io.Writer, list []users.User) {
	if len(list) == 0 {
		fmt.Fprintln(out, subtleStyle.Render("No users."))
		return
	}
	heading(out, "Users")
	w := newTable(out)
	fmt.Fprintln(w, "ID\tNAME\tAGE\tREGISTERED\tSTATUS")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", u.ID, u.Name, u.Age, timeutil.FormatDate(u.RegisterDate), u.Status)
	}
	_ = w.Flush()
}
