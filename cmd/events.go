package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/report"
)

var eventsSel selection

var eventsCmd = &cobra.Command{
	Use:   "events <match-id>",
	Short: "List the events of one category for a stored match",
	Long: `Project the events of one category into a table, in feed order, joined with
team and player names.

Categories: ` + strings.Join(extract.Names(), ", ") + `

Filters narrow the rows (--player, --team, --period) and --split keeps one
outcome group, e.g. successful, unsuccessful, on_target, off_target, or a
category's own label such as won or conceded for fouls.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

func init() {
	eventsSel.bind(eventsCmd.Flags(), true)
}

func runEvents(cmd *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	t, _, _, err := extractTable(db, matchID, &eventsSel, cmd.Flags())
	if err != nil {
		return err
	}
	if jsonOutput() {
		return report.WriteJSON(os.Stdout, report.NewTableJSON(t))
	}
	if t.Len() == 0 {
		fmt.Fprintf(os.Stdout, "No %s events match.\n", t.Category.Name)
		return nil
	}
	report.PrintTable(os.Stdout, t)
	return nil
}
