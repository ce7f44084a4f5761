package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-opta-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open in-memory db")
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleFeed(matchID int, hash string, day int) *model.Feed {
	m := model.NewMatch()
	m.MatchID = matchID
	m.CompetitionID, m.CompetitionName = 21, "Serie A"
	m.SeasonID, m.SeasonName = 2020, "Season 2020/2021"
	m.Matchday = 38
	m.GameDate = time.Date(2021, 5, day, 20, 45, 0, 0, time.UTC)
	m.HomeTeamID, m.HomeTeamName, m.HomeScore = 128, "Milan", 2
	m.AwayTeamID, m.AwayTeamName, m.AwayScore = 175, "Atalanta", 1

	pass := model.NewEvent()
	pass.ID, pass.EventID, pass.TypeID = 900, 1, model.EventPass
	pass.TeamID, pass.PlayerID, pass.Outcome = 128, 5001, 1
	pass.X, pass.Y = 50.5, 49
	pass.Timestamp = time.Date(2021, 5, day, 20, 45, 13, 102000000, time.UTC)
	pass.Qualifiers = []model.Qualifier{
		{ID: 1, TypeID: model.QualifierPassEndX, Value: "70"},
		{ID: 2, TypeID: model.QualifierPassEndY, Value: "12.5"},
	}

	goal := model.NewEvent()
	goal.ID, goal.EventID, goal.TypeID = 800, 2, model.EventGoal
	goal.TeamID, goal.PlayerID, goal.Outcome = 175, 6002, 1

	team := model.NewEvent()
	team.ID, team.EventID, team.TypeID = 700, 3, 32
	team.TeamID = 128

	return &model.Feed{Match: m, Events: []model.Event{pass, goal, team}, Hash: hash}
}

func TestInsertAndLoadFeed(t *testing.T) {
	db := openMemDB(t)
	feed := sampleFeed(2201873, "abc123", 23)
	roster := model.NewRoster(feed.Match, feed.Events)

	ingestID, err := db.InsertMatch(feed, roster)
	require.NoError(t, err)
	assert.Len(t, ingestID, 36)

	exists, err := db.MatchExists("abc123")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = db.MatchExists("nonexistent")
	require.NoError(t, err)
	assert.False(t, exists)

	got, gotRoster, err := db.LoadFeed(2201873)
	require.NoError(t, err)
	assert.Equal(t, feed.Match, got.Match)
	assert.Equal(t, feed.Events, got.Events, "events and qualifiers round-trip in feed order")
	assert.Equal(t, "abc123", got.Hash)
	assert.Equal(t, roster.Teams(), gotRoster.Teams())
	assert.Equal(t, roster.Players(), gotRoster.Players())
	assert.False(t, gotRoster.HasPlayerNames())
}

func TestInsertMatchReplacesPreviousCopy(t *testing.T) {
	db := openMemDB(t)
	feed := sampleFeed(1, "h1", 1)
	roster := model.NewRoster(feed.Match, feed.Events)
	first, err := db.InsertMatch(feed, roster)
	require.NoError(t, err)

	named := roster.WithSquad([]model.Player{{ID: 5001, Name: "Sandro Tonali"}})
	second, err := db.InsertMatch(feed, named)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	rec, err := db.GetMatch(1)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Events, "no duplicated events")
	assert.True(t, rec.SquadMerged)
	assert.Equal(t, second, rec.IngestID)

	_, r, err := db.LoadFeed(1)
	require.NoError(t, err)
	p, ok := r.Player(5001)
	require.True(t, ok)
	assert.Equal(t, "Sandro Tonali", p.DisplayName())
}

func TestGetMatchNotFound(t *testing.T) {
	db := openMemDB(t)
	_, err := db.GetMatch(42)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, _, err = db.LoadFeed(42)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestListMatches(t *testing.T) {
	db := openMemDB(t)
	for _, f := range []*model.Feed{sampleFeed(1, "h1", 1), sampleFeed(2, "h2", 20)} {
		_, err := db.InsertMatch(f, model.NewRoster(f.Match, f.Events))
		require.NoError(t, err)
	}

	list, err := db.ListMatches()
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by game date desc, match 2 is newest.
	assert.Equal(t, 2, list[0].Match.MatchID)
	assert.Equal(t, "Milan", list[0].Match.HomeTeamName)
}

func TestPlayerMatches(t *testing.T) {
	db := openMemDB(t)
	for _, f := range []*model.Feed{sampleFeed(2, "h2", 20), sampleFeed(1, "h1", 1)} {
		_, err := db.InsertMatch(f, model.NewRoster(f.Match, f.Events))
		require.NoError(t, err)
	}

	ids, err := db.PlayerMatches(5001)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids, "oldest first")

	ids, err = db.PlayerMatches(42)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteMatch(t *testing.T) {
	db := openMemDB(t)
	f := sampleFeed(7, "h7", 7)
	_, err := db.InsertMatch(f, model.NewRoster(f.Match, f.Events))
	require.NoError(t, err)

	require.NoError(t, db.DeleteMatch(7))
	_, err = db.GetMatch(7)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, db.DeleteMatch(7), ErrMatchNotFound)

	ov, err := db.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, Overview{}, ov)
}

func TestOverviewAndCounts(t *testing.T) {
	db := openMemDB(t)
	for _, f := range []*model.Feed{sampleFeed(1, "h1", 1), sampleFeed(2, "h2", 20)} {
		_, err := db.InsertMatch(f, model.NewRoster(f.Match, f.Events))
		require.NoError(t, err)
	}

	ov, err := db.GetOverview()
	require.NoError(t, err)
	assert.Equal(t, Overview{
		Matches: 2, Events: 6, Qualifiers: 4, Players: 2, Competitions: 1,
		EarliestMatch: "2021-05-01", LatestMatch: "2021-05-20",
	}, ov)

	counts, err := db.EventTypeCounts([]int{1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []TypeCount{{TypeID: model.EventPass, Count: 1}, {TypeID: model.EventGoal, Count: 1}}, counts)

	comps, err := db.CompetitionCounts()
	require.NoError(t, err)
	assert.Equal(t, []CompetitionCount{{Competition: "Serie A", Season: "Season 2020/2021", Matches: 2}}, comps)
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	f := sampleFeed(1, "h1", 1)
	_, err := db.InsertMatch(f, model.NewRoster(f.Match, f.Events))
	require.NoError(t, err)

	cols, rows, err := db.QueryRaw("SELECT type_id, x, NULL AS nothing FROM events WHERE match_id = 1 ORDER BY seq LIMIT 1")
	require.NoError(t, err)
	assert.Equal(t, []string{"type_id", "x", "nothing"}, cols)
	assert.Equal(t, [][]string{{"1", "50.5", "NULL"}}, rows)

	_, _, err = db.QueryRaw("SELECT nope FROM nowhere")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}
