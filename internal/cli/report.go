package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/crodash/internal/analytics"
	"github.com/emiliopalmerini/crodash/internal/domain"
	"github.com/emiliopalmerini/crodash/internal/filter"
	"github.com/emiliopalmerini/crodash/internal/normalize"
	"github.com/emiliopalmerini/crodash/internal/pipeline"
	"github.com/emiliopalmerini/crodash/internal/util"
)

var (
	reportFrom string
	reportTo   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print headline metrics and data quality for a date range",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "range start date (default 305 days ago)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "range end date (default 60 days ahead)")
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E9E9E"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// reportData is everything the report renders.
type reportData struct {
	Window   domain.DateRange
	Overview analytics.OverviewStats
	Quality  analytics.QualityReport
	Pipeline pipeline.Report
	Latest   *domain.SyncRun
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	window, err := reportWindow(now, reportFrom, reportTo)
	if err != nil {
		return err
	}

	app, err := NewAppContext(ctx, cfg, cfg.Sync.Sink)
	if err != nil {
		return err
	}
	defer app.Close()

	policy, err := cfg.StatusPolicy()
	if err != nil {
		return err
	}
	missing, err := cfg.MissingDatePolicy()
	if err != nil {
		return err
	}

	recs, err := app.Experiments.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}
	exps, rep := pipeline.Process(pipeline.StoredSourceRows(recs), pipeline.Options{Now: now, StatusPolicy: policy})

	latest, err := app.Runs.Latest(ctx)
	if err != nil {
		return fmt.Errorf("failed to load latest run: %w", err)
	}

	inView := filter.Apply(exps, filter.Filters{Range: window, MissingDates: missing})
	fmt.Fprint(cmd.OutOrStdout(), renderReport(reportData{
		Window:   window,
		Overview: analytics.Overview(inView, window),
		Quality:  analytics.Quality(exps, window),
		Pipeline: rep,
		Latest:   latest,
	}))
	return nil
}

func reportWindow(now time.Time, from, to string) (domain.DateRange, error) {
	window := domain.DefaultRange(now)
	if from != "" {
		t, ok := normalize.ParseDate(from)
		if !ok {
			return window, fmt.Errorf("invalid --from date %q", from)
		}
		window.Start = t
	}
	if to != "" {
		t, ok := normalize.ParseDate(to)
		if !ok {
			return window, fmt.Errorf("invalid --to date %q", to)
		}
		window.End = t
	}
	if window.Start.After(window.End) {
		return window, fmt.Errorf("range start %s is after end %s",
			window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
	}
	return window, nil
}

func renderReport(d reportData) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CRO experiments "+d.Window.String()) + "\n\n")

	o := d.Overview
	var card strings.Builder
	row(&card, "Experiments", util.FormatNumber(int64(o.Total)))
	row(&card, "Completed", util.FormatNumber(int64(o.Completed)))
	row(&card, "Winners", util.FormatNumber(int64(o.Winners)))
	row(&card, "Win rate", fmt.Sprintf("%d%%", o.WinRate))
	b.WriteString(boxStyle.Render(strings.TrimRight(card.String(), "\n")) + "\n\n")

	counts(&b, "Workstreams", o.Workstreams)
	counts(&b, "Page types", o.PageTypes)
	counts(&b, "Results", o.Results)

	q := d.Quality
	b.WriteString(headingStyle.Render("Data quality") + "\n")
	row(&b, "Missing start", util.FormatNumber(int64(q.MissingStart)))
	row(&b, "Missing end", util.FormatNumber(int64(q.MissingEnd)))
	row(&b, "Missing both", util.FormatNumber(int64(q.MissingBoth)))
	row(&b, "Dropped rows", util.FormatNumber(int64(d.Pipeline.Dropped)))
	if d.Pipeline.AmbiguousDates > 0 {
		row(&b, "Ambiguous", warnStyle.Render(util.FormatNumber(int64(d.Pipeline.AmbiguousDates))+" dates"))
	}
	if len(q.WinnersCarriedOver) > 0 {
		row(&b, "Winners before", strings.Join(q.WinnersCarriedOver, ", "))
	}
	if len(q.LosersCarriedOver) > 0 {
		row(&b, "Losers before", strings.Join(q.LosersCarriedOver, ", "))
	}
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Last sync") + "\n")
	if d.Latest == nil {
		b.WriteString("  no runs recorded\n")
		return b.String()
	}
	run := d.Latest
	status := run.Status
	if status == domain.SyncFailed {
		status = errorStyle.Render(status)
	}
	row(&b, "Run", run.ID)
	row(&b, "Status", status)
	row(&b, "Source", run.Source+" -> "+run.Sink)
	row(&b, "Started", util.FormatDateTime(&run.StartedAt))
	row(&b, "Upserted", util.FormatNumber(run.Upserted)+" of "+util.FormatNumber(run.Records))
	if run.Error != nil {
		row(&b, "Error", errorStyle.Render(*run.Error))
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString("  " + labelStyle.Render(fmt.Sprintf("%-16s", label)) + value + "\n")
}

func counts(b *strings.Builder, heading string, cs []analytics.Count) {
	if len(cs) == 0 {
		return
	}
	b.WriteString(headingStyle.Render(heading) + "\n")
	for _, c := range cs {
		row(b, c.Name, util.FormatNumber(int64(c.Value)))
	}
	b.WriteString("\n")
}
