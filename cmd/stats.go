package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-opta-metrics/internal/aggregator"
	"github.com/pable/go-opta-metrics/internal/report"
	"github.com/pable/go-opta-metrics/internal/storage"
)

var statsSel selection

var statsCmd = &cobra.Command{
	Use:   "stats <match-id>",
	Short: "Per-player summary of one category for a stored match",
	Long: `Summarise a category per player: totals, outcome split and success
percentage for binary categories, a single count for single-outcome
categories (ball recoveries, corners, interceptions) and goal / saved / post /
miss counts for shots.

Binary categories are ranked by success percentage, then successes, then
fewest failures. Single-outcome categories are ranked by count. Shots are
ranked by goals, then saved attempts, then post, then misses.

--team restricts the player list to those who recorded an event for that team.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	fs := statsCmd.Flags()
	fs.StringVarP(&statsSel.category, "category", "c", "", "event category")
	fs.IntVar(&statsSel.team, "team", 0, "only players who recorded an event for this team id")
}

func runStats(cmd *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := summarise(db, matchID, &statsSel, cmd.Flags())
	if err != nil {
		return err
	}
	if jsonOutput() {
		return report.WriteJSON(os.Stdout, report.NewSummaryJSON(s))
	}
	if len(s.Players) == 0 && len(s.Shots) == 0 {
		fmt.Fprintln(os.Stdout, "No players match.")
		return nil
	}
	report.PrintSummary(os.Stdout, s)
	return nil
}

// summarise extracts the whole category and aggregates it over the match's
// players; the team flag narrows the player set, not the events counted.
func summarise(db *storage.DB, matchID int, sel *selection, fs *pflag.FlagSet) (aggregator.Summary, error) {
	all := *sel
	all.split = ""
	t, feed, x, err := extractTable(db, matchID, &all, pflag.NewFlagSet("all", pflag.ContinueOnError))
	if err != nil {
		return aggregator.Summary{}, err
	}
	players := aggregator.Players(feed.Events, sel.teamFilter(fs))
	s, err := aggregator.Summarise(t, players, x.Roster())
	if err != nil {
		return aggregator.Summary{}, fmt.Errorf("summarise: %w", err)
	}
	return s, nil
}
