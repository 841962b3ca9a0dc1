package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

var trendDays int

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show team metrics and the score trend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := application

		metrics, err := a.Client.FetchTeamMetrics(ctx)
		if err != nil {
			return fmt.Errorf("fetching team metrics: %w", err)
		}
		trends, err := a.Client.FetchScoreTrends(ctx, trendDays)
		if err != nil {
			return fmt.Errorf("fetching score trends: %w", err)
		}

		title := color.New(color.Bold, color.Underline)
		_, _ = title.Fprintln(color.Output, "Team metrics")

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("TEAM", "SESSIONS", "SCORE", "CONFIDENCE", "CLARITY", "LISTENING")
		for _, m := range metrics {
			tbl.AddRow(m.Team, m.TotalSessions,
				colorScore(m.AvgScore),
				fmt.Sprintf("%.1f", m.AvgConfidence),
				fmt.Sprintf("%.1f", m.AvgClarity),
				fmt.Sprintf("%.1f", m.AvgListening))
		}
		_, _ = fmt.Fprintln(color.Output, tbl)

		_, _ = fmt.Fprintln(color.Output)
		_, _ = title.Fprintf(color.Output, "Average score, last %d days\n", trendDays)

		trendTbl := uitable.New()
		trendTbl.Separator = "  "
		trendTbl.AddRow("DATE", "SCORE", "SESSIONS", "")
		for _, p := range trends {
			trendTbl.AddRow(p.Date, colorScore(p.AvgScore), p.Sessions, sparkbar(p.AvgScore))
		}
		_, _ = fmt.Fprintln(color.Output, trendTbl)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().IntVar(&trendDays, "days", 30, "trend window in days")
	rootCmd.AddCommand(dashboardCmd)
}

// colorScore renders a 0-10 average with the shared tone thresholds.
func colorScore(v float64) string {
	text := fmt.Sprintf("%.1f", v)
	switch {
	case v >= 7.5:
		return color.GreenString(text)
	case v < 4:
		return color.RedString(text)
	default:
		return color.YellowString(text)
	}
}

// sparkbar draws a proportional bar for a 0-10 value.
func sparkbar(v float64) string {
	n := int(v * 2)
	if n < 0 {
		n = 0
	}
	if n > 20 {
		n = 20
	}
	bar := ""
	for i := 0; i < n; i++ {
		bar += "█"
	}
	return color.New(color.Faint).Sprint(bar)
}
