package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/storage"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<Games>
  <Game id="2201873" away_score="1" away_team_id="175" away_team_name="Atalanta"
        competition_id="21" competition_name="Serie A" game_date="2021-05-23T20:45:00"
        home_score="2" home_team_id="128" home_team_name="Milan" matchday="38"
        season_id="2020" season_name="Season 2020/2021">
    <Event id="1" event_id="1" type_id="1" period_id="1" min="0" sec="1" team_id="128"
           player_id="5001" outcome="1" x="50" y="50">
      <Q id="11" qualifier_id="140" value="60"/>
    </Event>
    <Event id="2" event_id="2" type_id="1" period_id="1" min="1" sec="0" team_id="128"
           player_id="5001" outcome="0" x="40" y="30"/>
    <Event id="3" event_id="3" type_id="1" period_id="2" min="50" sec="0" team_id="128"
           player_id="5001" outcome="1" x="30" y="20"/>
    <Event id="4" event_id="4" type_id="1" period_id="2" min="51" sec="0" team_id="128"
           player_id="5002" outcome="1" x="70" y="60"/>
    <Event id="5" event_id="5" type_id="16" period_id="2" min="60" sec="0" team_id="175"
           player_id="6002" outcome="1" x="90" y="50"/>
  </Game>
</Games>`

const squadsXML = `<?xml version="1.0"?>
<SoccerFeed>
  <SoccerDocument Type="SQUADS Latest">
    <Team uID="t128">
      <Player uID="p5001"><Name>Sandro Tonali</Name></Player>
      <Player uID="p5002"><Name>Rafael Leão</Name></Player>
    </Team>
  </SoccerDocument>
</SoccerFeed>`

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	executed, err := rootCmd.ExecuteC()
	finish(executed, err)
	return err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCommandsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dbFile := filepath.Join(dir, "data", "matches.db")
	promFile := filepath.Join(dir, "optametrics.prom")
	feed := writeFile(t, dir, "f24.xml", feedXML)
	squads := writeFile(t, dir, "srml.xml", squadsXML)

	require.NoError(t, run(t, "--db", dbFile, "--metrics-file", promFile, "parse", feed, "--squads", squads))

	prom, err := os.ReadFile(promFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "optametrics_matches_stored_total 1")
	assert.Contains(t, string(prom), "optametrics_events_parsed_total 5")

	db, err := storage.Open(dbFile)
	require.NoError(t, err)
	rec, err := db.GetMatch(2201873)
	require.NoError(t, err)
	assert.True(t, rec.SquadMerged)
	assert.Equal(t, 5, rec.Events)
	require.NoError(t, db.Close())

	rowsOut := filepath.Join(dir, "passes.json")
	require.NoError(t, run(t, "--db", dbFile, "export", "2201873", "-c", "passes", "--split", "successful", "-o", rowsOut))
	var table struct {
		Category string           `json:"category"`
		Rows     []map[string]any `json:"rows"`
	}
	readJSON(t, rowsOut, &table)
	assert.Equal(t, "passes", table.Category)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "Sandro Tonali", table.Rows[0]["player_name"])
	assert.Equal(t, "Milan", table.Rows[0]["team_name"])
	assert.Equal(t, 60.0, table.Rows[0]["x_end"])
	assert.Nil(t, table.Rows[1]["x_end"])

	summaryOut := filepath.Join(dir, "summary.json")
	require.NoError(t, run(t, "--db", dbFile, "export", "2201873", "-c", "passes", "--summary", "-o", summaryOut))
	var summary struct {
		Players []struct {
			PlayerID int     `json:"player_id"`
			Name     string  `json:"name"`
			Success  int     `json:"success"`
			Failure  int     `json:"failure"`
			Ratio    float64 `json:"ratio"`
		} `json:"players"`
	}
	readJSON(t, summaryOut, &summary)
	require.Len(t, summary.Players, 3)
	assert.Equal(t, 5002, summary.Players[0].PlayerID)
	assert.Equal(t, 100.0, summary.Players[0].Ratio)
	assert.Equal(t, 5001, summary.Players[1].PlayerID)
	assert.Equal(t, 66.67, summary.Players[1].Ratio)
	assert.Equal(t, 6002, summary.Players[2].PlayerID)
	assert.Equal(t, 0, summary.Players[2].Success+summary.Players[2].Failure)

	err = run(t, "--db", dbFile, "events", "2201873", "-c", "nope")
	assert.ErrorIs(t, err, extract.ErrUnknownCategory)

	err = run(t, "--db", dbFile, "show", "12")
	assert.ErrorIs(t, err, storage.ErrMatchNotFound)

	require.NoError(t, run(t, "--db", dbFile, "drop", "--force", "--match", "2201873"))
	db, err = storage.Open(dbFile)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.GetMatch(2201873)
	assert.ErrorIs(t, err, storage.ErrMatchNotFound)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}

func TestSelectionOptions(t *testing.T) {
	var sel selection
	fs := pflag.NewFlagSet("events", pflag.ContinueOnError)
	sel.bind(fs, true)
	require.NoError(t, fs.Parse([]string{"-c", "fouls", "--team", "0", "--split", "won"}))

	assert.Equal(t, "fouls", sel.category)
	assert.Equal(t, "won", sel.split)
	assert.Len(t, sel.options(fs), 1, "team 0 was set explicitly")
	require.NotNil(t, sel.teamFilter(fs))
	assert.Equal(t, 0, *sel.teamFilter(fs))

	fs = pflag.NewFlagSet("stats", pflag.ContinueOnError)
	sel = selection{}
	sel.bind(fs, false)
	require.NoError(t, fs.Parse(nil))
	assert.Empty(t, sel.options(fs))
	assert.Nil(t, sel.teamFilter(fs))
	assert.Nil(t, fs.Lookup("split"))
}

func TestParseMatchID(t *testing.T) {
	id, err := parseMatchID("2201873")
	require.NoError(t, err)
	assert.Equal(t, 2201873, id)
	_, err = parseMatchID("abc")
	assert.Error(t, err)
}

func TestShellLoop(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	in := strings.NewReader("help\n\nlist\ncategories\nbogus\nshow 1\nsql SELECT 1\nexit\nlist\n")
	assert.NoError(t, shellLoop(db, in))
}
