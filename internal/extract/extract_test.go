package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-opta-metrics/internal/criteria"
	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/query"
)

const (
	home = 10
	away = 20
)

type q struct {
	code  int
	value string
}

func event(id, typeID, team, player, period, outcome int, quals ...q) model.Event {
	ev := model.NewEvent()
	ev.ID = id
	ev.EventID = id
	ev.TypeID = typeID
	ev.TeamID = team
	ev.PlayerID = player
	ev.PeriodID = period
	ev.Min = id
	ev.Sec = 0
	ev.Outcome = outcome
	ev.X = 50
	ev.Y = 50
	for i, qq := range quals {
		ev.Qualifiers = append(ev.Qualifiers, model.Qualifier{ID: id*100 + i, TypeID: qq.code, Value: qq.value})
	}
	return ev
}

func match() model.Match {
	m := model.NewMatch()
	m.HomeTeamID, m.HomeTeamName = home, "Home FC"
	m.AwayTeamID, m.AwayTeamName = away, "Away United"
	return m
}

func fixture() []model.Event {
	return []model.Event{
		event(1, model.EventPass, home, 100, 1, 1, q{model.QualifierPassEndX, "70.5"}, q{model.QualifierPassEndY, "20"}),
		event(2, model.EventPass, home, 100, 1, 0),
		event(3, model.EventPass, home, 101, 1, 1, q{model.QualifierCornerTaken, ""}, q{model.QualifierCross, ""}),
		event(4, model.EventPass, away, 200, 2, 1, q{model.QualifierCross, ""}, q{model.QualifierPassEndX, "0"}),
		event(5, model.EventPass, away, 200, 2, 0, q{model.QualifierCross, ""}, q{model.QualifierFreeKickTaken, ""}),
		event(6, model.EventGoal, away, 200, 2, 1, q{model.QualifierGoalMouthY, "48.2"}),
		event(7, model.EventMiss, home, 101, 2, 1),
		event(8, model.EventAttemptSaved, home, 100, 2, 1, q{model.QualifierGoalMouthZ, "3.1"}),
		// unknown team
		event(9, model.EventPass, 99, 300, 1, 1),
		// no player
		event(10, model.EventPass, home, model.UndefinedInt, 1, 1),
		event(11, model.EventPass, home, 100, 1, 1, q{model.QualifierThrowIn, ""}),
		event(12, model.EventFoul, away, 201, 1, 0),
	}
}

func newExtractor(events []model.Event) *Extractor {
	return New(events, model.NewRoster(match(), events))
}

func ids(t Table) []int {
	out := make([]int, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestPassesExcludeSetPieces(t *testing.T) {
	x := newExtractor(fixture())
	tbl, err := x.Extract(Passes)
	require.NoError(t, err)
	// 3 is a corner, 4/5 are crosses, 9 has no known team, 11 is a throw-in.
	assert.Equal(t, []int{1, 2, 10}, ids(tbl))

	first := tbl.Rows[0]
	assert.Equal(t, Coord{Value: 70.5, Valid: true}, first.EndX)
	assert.Equal(t, Coord{Value: 20, Valid: true}, first.EndY)
	assert.Equal(t, "Home FC", first.TeamName)
	assert.False(t, tbl.Rows[1].EndX.Valid, "missing end qualifier is absent, not zero")
}

func TestScenarioSuccessfulPass(t *testing.T) {
	events := []model.Event{event(1, model.EventPass, home, 100, 1, 1)}
	tbl, err := newExtractor(events).Extract(Passes)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, ids(tbl))
	assert.Equal(t, []int{1}, ids(tbl.Successful()))
	assert.Empty(t, tbl.Unsuccessful().Rows)
}

func TestScenarioCornerIsNotAPass(t *testing.T) {
	events := []model.Event{event(1, model.EventPass, home, 100, 1, 1, q{model.QualifierCornerTaken, ""})}
	x := newExtractor(events)

	passes, err := x.Extract(Passes)
	require.NoError(t, err)
	assert.Empty(t, passes.Rows)

	corners, err := x.Extract(Corners)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(corners))
}

func TestCrosses(t *testing.T) {
	tbl, err := newExtractor(fixture()).Extract(Crosses)
	require.NoError(t, err)
	// 3 is a corner taken as a cross, 5 a free kick taken as a cross.
	assert.Equal(t, []int{4}, ids(tbl))
	assert.Equal(t, Coord{Value: 0, Valid: true}, tbl.Rows[0].EndX)
}

func TestShots(t *testing.T) {
	tbl, err := newExtractor(fixture()).Extract(ShotsCategory)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 8}, ids(tbl))

	goal := tbl.Rows[0]
	assert.Equal(t, "Goal", goal.TypeName)
	assert.Equal(t, Coord{Value: 48.2, Valid: true}, goal.GoalMouthY)
	assert.False(t, goal.GoalMouthZ.Valid)
	assert.Equal(t, "Miss", tbl.Rows[1].TypeName)
	assert.Equal(t, "Attempt Saved", tbl.Rows[2].TypeName)

	assert.Equal(t, []int{6, 8}, ids(tbl.OnTarget()))
	assert.Equal(t, []int{7}, ids(tbl.OffTarget()))
}

func TestOptions(t *testing.T) {
	x := newExtractor(fixture())

	tbl, err := x.Extract(Passes, ForPlayer(100))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(tbl))

	tbl, err = x.Extract(ShotsCategory, ForTeam(home), ForPeriod(2))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 8}, ids(tbl))

	tbl, err = x.Extract(Passes, Where(query.Filter{X: query.Ptr(criteria.MustNew(criteria.GT, 60))}))
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
}

func TestNameJoinDropsUnknownPlayersOnceNamed(t *testing.T) {
	events := fixture()
	roster := model.NewRoster(match(), events).WithSquad([]model.Player{
		{ID: 100, Name: "Alpha"},
		{ID: 101, KnownName: "Beta"},
	})
	x := New(events, roster)

	tbl, err := x.Extract(Passes)
	require.NoError(t, err)
	// 10 has no player and is dropped by the player join.
	assert.Equal(t, []int{1, 2}, ids(tbl))
	assert.Equal(t, "Alpha", tbl.Rows[0].PlayerName)

	shots, err := x.Extract(ShotsCategory)
	require.NoError(t, err)
	// 200 is observed but absent from the squad: kept with an empty name.
	assert.Equal(t, []int{6, 7, 8}, ids(shots))
	assert.Equal(t, "", shots.Rows[0].PlayerName)
	assert.Equal(t, "Beta", shots.Rows[1].PlayerName)
}

func TestEmptyResultKeepsColumns(t *testing.T) {
	tbl, err := newExtractor(nil).Extract(Tackles)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.NotNil(t, tbl.Rows)
	assert.Equal(t, []string{
		"id", "event_id", "period_id", "min", "sec", "player_id",
		"team_id", "outcome", "x_start", "y_start", "team_name", "player_name",
	}, tbl.Columns())
	assert.Empty(t, tbl.Successful().Rows)
}

func TestExtractIsIdempotent(t *testing.T) {
	x := newExtractor(fixture())
	for _, name := range Names() {
		cat, err := Lookup(name)
		require.NoError(t, err)

		a, err := x.Extract(cat)
		require.NoError(t, err)
		b, err := x.Extract(cat)
		require.NoError(t, err)

		ja, err := json.Marshal(a.Records())
		require.NoError(t, err)
		jb, err := json.Marshal(b.Records())
		require.NoError(t, err)
		assert.Equal(t, string(ja), string(jb), name)
	}
}

func TestAllEvents(t *testing.T) {
	tbl, err := newExtractor(fixture()).Extract(AllEvents)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 11, "only the unknown-team event is dropped")
	assert.Equal(t, "Pass", tbl.Rows[0].TypeName)
	assert.Len(t, tbl.Rows[0].Qualifiers, 2)
}

func TestRecordsUseNullForAbsentCoordinates(t *testing.T) {
	tbl, err := newExtractor(fixture()).Extract(Passes, ForPlayer(100))
	require.NoError(t, err)
	data, err := json.Marshal(tbl.Records()[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"x_end":null`)
}

func TestNonFiniteCoordinatesAreAbsent(t *testing.T) {
	events := []model.Event{
		event(1, model.EventPass, home, 100, 1, 1, q{model.QualifierPassEndX, "NaN"}, q{model.QualifierPassEndY, "inf"}),
		event(2, model.EventPass, home, 100, 1, 1, q{model.QualifierPassEndX, "12.5"}),
	}
	tbl, err := newExtractor(events).Extract(Passes)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, Coord{}, tbl.Rows[0].EndX)
	assert.Equal(t, Coord{}, tbl.Rows[0].EndY)
	assert.Equal(t, Coord{Value: 12.5, Valid: true}, tbl.Rows[1].EndX)
}

func TestSplitByName(t *testing.T) {
	x := newExtractor(fixture())
	fouls, err := x.Extract(Fouls)
	require.NoError(t, err)

	conceded, err := fouls.Split("conceded")
	require.NoError(t, err)
	assert.Equal(t, []int{12}, ids(conceded))

	won, err := fouls.Split(SplitSuccessful)
	require.NoError(t, err)
	assert.Empty(t, won.Rows)

	_, err = fouls.Split("sideways")
	assert.ErrorIs(t, err, ErrUnknownSplit)
}

func TestLookup(t *testing.T) {
	c, err := Lookup("Aerial-Duels")
	require.NoError(t, err)
	assert.Equal(t, "aerial_duels", c.Name)

	_, err = Lookup("dribbles")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Len(t, Names(), 11)
}
