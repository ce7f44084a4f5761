package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/report"
	"github.com/pable/go-opta-metrics/internal/storage"
)

const summaryTopTypes = 15

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all matches stored in the database:
match, event and qualifier counts, date range, competitions and seasons, and
the most frequent event types.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	comps, err := db.CompetitionCounts()
	if err != nil {
		return fmt.Errorf("get competitions: %w", err)
	}
	types, err := db.EventTypeCounts(nil, summaryTopTypes)
	if err != nil {
		return fmt.Errorf("get event types: %w", err)
	}

	if jsonOutput() {
		return report.WriteJSON(os.Stdout, struct {
			storage.Overview
			Competitions []storage.CompetitionCount `json:"competitions"`
			EventTypes   []storage.TypeCount        `json:"event_types"`
		}{ov, comps, types})
	}
	if ov.Matches == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'optametrics parse <f24.xml>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.Matches)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Competitions   : %d\n", ov.Competitions)
	fmt.Fprintf(os.Stdout, "  Players seen   : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Events         : %d\n", ov.Events)
	fmt.Fprintf(os.Stdout, "  Qualifiers     : %d\n", ov.Qualifiers)

	fmt.Fprintf(os.Stdout, "\n--- Competitions ---\n\n")
	report.PrintCompetitions(os.Stdout, comps)

	fmt.Fprintf(os.Stdout, "\n--- Most Frequent Event Types ---\n\n")
	report.PrintTypeCounts(os.Stdout, types)
	return nil
}
