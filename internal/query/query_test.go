package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-opta-metrics/internal/criteria"
	"github.com/pable/go-opta-metrics/internal/model"
)

func event(id, typeID, team, player, period, outcome int, qualifierCodes ...int) model.Event {
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
	ev.X = float64(id * 10)
	ev.Y = 50
	for i, c := range qualifierCodes {
		ev.Qualifiers = append(ev.Qualifiers, model.Qualifier{ID: id*100 + i, TypeID: c})
	}
	return ev
}

func sample() []model.Event {
	return []model.Event{
		event(1, model.EventPass, 10, 100, 1, 1),
		event(2, model.EventPass, 10, 101, 1, 0, model.QualifierCross),
		event(3, model.EventGoal, 20, 200, 2, 1),
		event(4, model.EventPass, 20, 200, 2, 1, model.QualifierCross, model.QualifierCornerTaken),
		event(5, model.EventTackle, 10, 100, 2, 0),
	}
}

func ids(events []model.Event) []int {
	out := make([]int, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func TestApply_EmptyFilterIsIdentity(t *testing.T) {
	events := sample()
	got, err := Apply(events, Filter{})
	require.NoError(t, err)
	assert.Equal(t, events, got)
}

func TestApply_EmptyInput(t *testing.T) {
	got, err := Apply(nil, Filter{Type: Ptr(criteria.Eq(model.EventPass))})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApply_Conjunction(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"type only", Filter{Type: Ptr(criteria.Eq(model.EventPass))}, []int{1, 2, 4}},
		{"type and team", Filter{Type: Ptr(criteria.Eq(model.EventPass)), Team: Ptr(criteria.Eq(20))}, []int{4}},
		{"player and period", Filter{Player: Ptr(criteria.Eq(100)), Period: Ptr(criteria.Eq(2))}, []int{5}},
		{"outcome", Filter{Outcome: Ptr(criteria.Eq(0))}, []int{2, 5}},
		{"minute range", Filter{Min: Ptr(criteria.MustNew(criteria.BW, []int{2, 4}))}, []int{2, 3, 4}},
		{"x greater", Filter{X: Ptr(criteria.MustNew(criteria.GT, 30))}, []int{4, 5}},
		{"type set", Filter{Type: Ptr(criteria.In(model.EventGoal, model.EventTackle))}, []int{3, 5}},
		{
			"qualifier presence and absence",
			Filter{
				Qualifiers:      Ptr(criteria.QIn(model.QualifierCross)),
				ExtraQualifiers: Ptr(criteria.QNotIn(model.QualifierCornerTaken, model.QualifierFreeKickTaken)),
			},
			[]int{2},
		},
		{"no match", Filter{Team: Ptr(criteria.Eq(99))}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(sample(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	events := sample()
	before := append([]model.Event(nil), events...)
	_, err := Apply(events, Filter{Type: Ptr(criteria.Eq(model.EventPass))})
	require.NoError(t, err)
	assert.Equal(t, before, events)
}

func TestApply_PropagatesContractViolation(t *testing.T) {
	// A qualifier criterion placed in a scalar slot cannot be evaluated.
	_, err := Apply(sample(), Filter{Type: Ptr(criteria.QIn(model.QualifierCross))})
	require.Error(t, err)
	assert.ErrorIs(t, err, criteria.ErrObservedShape)
}

func TestMerge(t *testing.T) {
	base := Filter{Type: Ptr(criteria.Eq(model.EventPass)), Team: Ptr(criteria.Eq(10))}
	merged := base.Merge(Filter{Team: Ptr(criteria.Eq(20)), Period: Ptr(criteria.Eq(2))})

	got, err := Apply(sample(), merged)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, ids(got))
	assert.Equal(t, 10, base.Team.Operand(), "merge must not modify the receiver")
}
