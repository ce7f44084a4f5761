package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match database",
	Long: `Run an arbitrary SQL query against the match database and print results as a table.

Schema overview:
  matches(match_id, hash, ingest_id, ingested_at, competition_id, competition_name,
    season_id, season_name, matchday, game_date, period_1_start, period_2_start,
    home_team_id, home_team_name, home_score, away_team_id, away_team_name,
    away_score, additional_info, squad_merged)
  teams(match_id, team_id, name)
  players(match_id, player_id, team_id, position, name, first_name, last_name, known_name)
  events(match_id, seq, id, event_id, type_id, period_id, min, sec, team_id,
    player_id, outcome, assist, keypass, x, y, timestamp, last_modified)
  qualifiers(match_id, event_seq, seq, id, qualifier_id, value)

Undefined numeric attributes are stored as -9999 (integers) or -9999.9 (reals).
Example: SELECT player_id, COUNT(1) FROM events WHERE type_id = 1 GROUP BY player_id`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		cols []string
		rows [][]string
	)
	err = timed("query_raw", func() error {
		cols, rows, err = db.QueryRaw(query)
		return err
	})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return report.WriteJSON(os.Stdout, map[string]any{"columns": cols, "rows": rows})
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
