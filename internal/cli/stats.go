package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cairnapp/cairn/internal/stats"
	"github.com/cairnapp/cairn/pkg/types"
)

func newStatsCmd() *cobra.Command {
	var period string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-habit completion rates and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, period, refresh)
		},
	}
	cmd.Flags().StringVar(&period, "period", "month", "reporting period: week, month, or year")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and refetch from the server")
	return cmd
}

func runStats(cmd *cobra.Command, period string, refresh bool) error {
	a, err := openApp()
	if err != nil {
		return exitError(cmd, exitSysError, err.Error())
	}
	defer a.close()

	now := time.Now()
	start, end, err := periodRange(now, period, a.prefs.Get().WeekStart)
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}

	ctx := cmd.Context()
	habitList, err := a.habits.Habits(ctx, refresh)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("fetch habits: %s", err))
	}

	checkins := make(map[string][]types.Checkin, len(habitList))
	for _, h := range habitList {
		recs, err := a.habits.Checkins(ctx, h.ID, start, end, refresh)
		if err != nil {
			return exitError(cmd, exitSysError, fmt.Sprintf("fetch check-ins for %s: %s", h.Name, err))
		}
		checkins[h.ID] = recs
	}

	ranked := stats.RankHabits(habitList, checkins, start, end, now)

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ranked)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n", start, end)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HABIT\tDAYS\tRATE\tSTREAK")
	for _, s := range ranked {
		fmt.Fprintf(w, "%s\t%d/%d\t%d%%\t%d\n",
			s.Habit.Name, s.CheckinDays, s.TotalDays, s.CompletionRate, s.StreakDays)
	}
	return w.Flush()
}

// periodRange maps a period name to an inclusive date range anchored at now.
func periodRange(now time.Time, period string, weekStart int) (string, string, error) {
	switch period {
	case "week":
		start, end := stats.WeekRange(now, weekStart)
		return start, end, nil
	case "month":
		start, end := stats.MonthRange(now)
		return start, end, nil
	case "year":
		start, end := stats.YearRange(now)
		return start, end, nil
	default:
		return "", "", fmt.Errorf("unknown period %q (want week, month, or year)", period)
	}
}
