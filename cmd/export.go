package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/report"
)

var (
	exportSel     selection
	exportOut     string
	exportSummary bool
)

var exportCmd = &cobra.Command{
	Use:   "export <match-id>",
	Short: "Write one category of a stored match to a JSON file",
	Long: `Export the rows of a category (same filters as 'events') as a JSON document
with the category name, its column list and one object per row. Absent
coordinates are written as null. With --summary the per-player summary is
exported instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	fs := exportCmd.Flags()
	exportSel.bind(fs, true)
	fs.StringVarP(&exportOut, "out", "o", "", "output file (required)")
	fs.BoolVar(&exportSummary, "summary", false, "export the per-player summary instead of rows")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		doc  any
		what string
	)
	if exportSummary {
		s, err := summarise(db, matchID, &exportSel, cmd.Flags())
		if err != nil {
			return err
		}
		doc = report.NewSummaryJSON(s)
		what = fmt.Sprintf("%d player summaries", len(s.Players)+len(s.Shots))
	} else {
		t, _, _, err := extractTable(db, matchID, &exportSel, cmd.Flags())
		if err != nil {
			return err
		}
		doc = report.NewTableJSON(t)
		what = fmt.Sprintf("%d %s rows", t.Len(), t.Category.Name)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	defer f.Close()
	if err := report.WriteJSON(f, doc); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", what, exportOut)
	return nil
}
