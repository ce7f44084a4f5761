package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-opta-metrics/internal/aggregator"
	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/report"
)

var trendCategory string

var trendCmd = &cobra.Command{
	Use:   "trend <player-id>",
	Short: "Chronological per-match summary of one category for a player",
	Long: `For every stored match whose roster includes the player, summarise one
category for that player, oldest match first, followed by a total row whose
percentage is computed from the summed outcomes.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().StringVarP(&trendCategory, "category", "c", "", "event category")
	_ = trendCmd.MarkFlagRequired("category")
}

func runTrend(cmd *cobra.Command, args []string) error {
	playerID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid player id %q: %w", args[0], err)
	}
	cat, err := extract.Lookup(trendCategory)
	if err != nil {
		return err
	}
	if cat.Kind == extract.Listing {
		return fmt.Errorf("trend: %s is not a summarised category", cat.Name)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matchIDs, err := db.PlayerMatches(playerID)
	if err != nil {
		return fmt.Errorf("query matches: %w", err)
	}
	if len(matchIDs) == 0 {
		fmt.Println("no matches found")
		return nil
	}

	sel := selection{category: cat.Name}
	none := pflag.NewFlagSet("trend", pflag.ContinueOnError)
	lines := make([]aggregator.MatchLine, 0, len(matchIDs))
	for _, id := range matchIDs {
		t, feed, x, err := extractTable(db, id, &sel, none)
		if err != nil {
			return err
		}
		s, err := aggregator.Summarise(t, []int{playerID}, x.Roster())
		if err != nil {
			return fmt.Errorf("summarise match %d: %w", id, err)
		}
		line := aggregator.MatchLine{Match: feed.Match}
		if len(s.Players) > 0 {
			line.Stats = s.Players[0]
		}
		if len(s.Shots) > 0 {
			line.Shots = s.Shots[0]
		}
		lines = append(lines, line)
	}

	if jsonOutput() {
		ps, ss := aggregator.Totals(lines)
		return report.WriteJSON(os.Stdout, map[string]any{
			"player_id": playerID,
			"category":  cat.Name,
			"matches":   lines,
			"total":     ps,
			"shots":     ss,
		})
	}
	report.PrintTrend(os.Stdout, cat, lines)
	return nil
}
