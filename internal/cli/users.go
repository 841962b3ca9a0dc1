package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/perfpulse/pulse/pkg/models"
)

var usersTeam string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Show per-user performance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a := application

		perf, err := a.Client.FetchUserPerformance(ctx)
		if err != nil {
			return fmt.Errorf("fetching user performance: %w", err)
		}
		users, err := a.Client.FetchUsers(ctx)
		if err != nil {
			return fmt.Errorf("fetching users: %w", err)
		}

		if usersTeam != "" {
			filtered := perf[:0]
			for _, p := range perf {
				if p.Team == usersTeam {
					filtered = append(filtered, p)
				}
			}
			perf = filtered
		}
		perf = orderByRoster(perf, users)

		title := color.New(color.Bold, color.Underline)
		_, _ = title.Fprintln(color.Output, "User performance")

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("NAME", "TEAM", "SESSIONS", "AVG", "BEST", "TREND")
		for _, p := range perf {
			tbl.AddRow(p.FirstName, p.Team, p.TotalSessions,
				colorScore(p.AvgScore),
				fmt.Sprintf("%.1f", p.BestSessionScore),
				trendGlyph(p.RecentTrend))
		}
		_, _ = fmt.Fprintln(color.Output, tbl)
		return nil
	},
}

func init() {
	usersCmd.Flags().StringVar(&usersTeam, "team", "", "only show one team")
	rootCmd.AddCommand(usersCmd)
}

// orderByRoster orders performance rows by the roster's user order;
// rows for users missing from the roster keep their relative order at
// the end.
func orderByRoster(perf []models.UserPerformance, roster []models.UserSummary) []models.UserPerformance {
	rank := make(map[string]int, len(roster))
	for i, u := range roster {
		rank[u.ID] = i
	}
	out := append([]models.UserPerformance(nil), perf...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].UserID]
		rj, jok := rank[out[j].UserID]
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ri < rj
	})
	return out
}

func trendGlyph(trend string) string {
	switch trend {
	case "up":
		return color.GreenString("▲")
	case "down":
		return color.RedString("▼")
	default:
		return color.New(color.Faint).Sprint("→")
	}
}
