package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id, team, player int) Event {
	e := NewEvent()
	e.ID = id
	e.TeamID = team
	e.PlayerID = player
	return e
}

func TestNewEventSentinels(t *testing.T) {
	e := NewEvent()
	assert.Equal(t, UndefinedInt, e.PlayerID)
	assert.Equal(t, UndefinedInt, e.Outcome)
	assert.Equal(t, UndefinedFloat, e.X)
	assert.Equal(t, UndefinedDate, e.Timestamp)
	assert.NotNil(t, e.Qualifiers)
	assert.False(t, e.HasPlayer())
}

func TestQualifierValueFirstMatchWins(t *testing.T) {
	e := NewEvent()
	e.Qualifiers = []Qualifier{
		{ID: 1, TypeID: QualifierPassEndY, Value: "10"},
		{ID: 2, TypeID: QualifierPassEndX, Value: "20"},
		{ID: 3, TypeID: QualifierPassEndX, Value: "30"},
	}
	v, ok := e.QualifierValue(QualifierPassEndX)
	require.True(t, ok)
	assert.Equal(t, "20", v)
	assert.False(t, e.HasQualifier(QualifierCross))
}

func TestCodeTables(t *testing.T) {
	assert.Equal(t, "Goal", EventTypeName(EventGoal))
	assert.Equal(t, "Attempt Saved", EventTypeName(EventAttemptSaved))
	assert.Equal(t, "Cross", QualifierTypeName(QualifierCross))
	assert.Equal(t, "", EventTypeName(-1))

	code, ok := EventTypeCode("Ball recovery")
	require.True(t, ok)
	assert.Equal(t, EventBallRecovery, code)

	code, ok = QualifierTypeCode("Pass End X")
	require.True(t, ok)
	assert.Equal(t, QualifierPassEndX, code)

	_, ok = QualifierTypeCode("no such qualifier")
	assert.False(t, ok)

	codes := EventTypeCodes()
	assert.True(t, sort.IntsAreSorted(codes))
	assert.Contains(t, codes, EventAerial)
	assert.True(t, sort.IntsAreSorted(QualifierTypeCodes()))
}

func TestNewRoster(t *testing.T) {
	m := NewMatch()
	m.HomeTeamID, m.HomeTeamName = 1, "Home"
	m.AwayTeamID, m.AwayTeamName = 2, "Away"
	events := []Event{ev(1, 1, 30), ev(2, 2, 10), ev(3, 1, 30), ev(4, 1, UndefinedInt), ev(5, 2, 20)}

	r := NewRoster(m, events)
	assert.False(t, r.HasPlayerNames())
	assert.Equal(t, []Team{{1, "Home"}, {2, "Away"}}, r.Teams())

	players := r.Players()
	require.Len(t, players, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{players[0].ID, players[1].ID, players[2].ID})
	assert.Equal(t, 1, players[2].TeamID)

	_, ok := r.Player(UndefinedInt)
	assert.False(t, ok)
	team, ok := r.Team(2)
	require.True(t, ok)
	assert.Equal(t, "Away", team.Name)
}

func TestRosterWithSquad(t *testing.T) {
	m := NewMatch()
	m.HomeTeamID, m.AwayTeamID = 1, 2
	r := NewRoster(m, []Event{ev(1, 1, 10), ev(2, 2, 20)})

	merged := r.WithSquad([]Player{
		{ID: 10, TeamID: 1, Name: "First Entry", Position: "Goalkeeper"},
		{ID: 10, TeamID: 3, Name: "Loan Duplicate"},
		{ID: 99, TeamID: 1, Name: "Never Played"},
	})

	assert.True(t, merged.HasPlayerNames())
	assert.False(t, r.HasPlayerNames(), "receiver is unchanged")

	p, ok := merged.Player(10)
	require.True(t, ok)
	assert.Equal(t, "First Entry", p.DisplayName())
	assert.Equal(t, "Goalkeeper", p.Position)

	p, ok = merged.Player(20)
	require.True(t, ok, "left join keeps observed players missing from the squad")
	assert.Equal(t, "", p.DisplayName())

	_, ok = merged.Player(99)
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Pelé", Player{KnownName: "Pelé", FirstName: "Edson"}.DisplayName())
	assert.Equal(t, "Edson Arantes", Player{FirstName: "Edson", LastName: "Arantes"}.DisplayName())
	assert.Equal(t, "Arantes", Player{LastName: "Arantes"}.DisplayName())
}

func TestTeamPlayers(t *testing.T) {
	events := []Event{ev(1, 1, 30), ev(2, 2, 10), ev(3, 1, 20), ev(4, 2, 30)}
	assert.Equal(t, []int{10, 20, 30}, ObservedPlayers(events))
	assert.Equal(t, []int{20, 30}, TeamPlayers(events, 1))
	assert.Empty(t, TeamPlayers(events, 9))
}

func TestRestoreRosterSortsPlayers(t *testing.T) {
	r := RestoreRoster(nil, []Player{{ID: 3}, {ID: 1}, {ID: 2}}, true)
	_, ok := r.Player(1)
	assert.True(t, ok)
	assert.Equal(t, 1, r.Players()[0].ID)
	assert.True(t, r.HasPlayerNames())
}
