package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/report"
	"github.com/pable/go-opta-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var matches []storage.MatchRecord
	err = timed("list_matches", func() error {
		matches, err = db.ListMatches()
		return err
	})
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if jsonOutput() {
		return report.WriteJSON(os.Stdout, matches)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'optametrics parse <f24.xml>' to add one.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
