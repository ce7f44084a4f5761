// Package query selects events matching a flat conjunction of criteria, one
// optional criterion per event attribute.
package query

import (
	"fmt"

	"github.com/pable/go-opta-metrics/internal/criteria"
	"github.com/pable/go-opta-metrics/internal/model"
)

// Filter holds one optional criterion per slot. A nil slot places no
// constraint on that attribute; every non-nil slot must hold for an event to
// be kept. There is no OR and no nesting.
type Filter struct {
	Type       *criteria.Criterion
	Team       *criteria.Criterion
	Player     *criteria.Criterion
	Period     *criteria.Criterion
	Min        *criteria.Criterion
	Sec        *criteria.Criterion
	Outcome    *criteria.Criterion
	X          *criteria.Criterion
	Y          *criteria.Criterion
	Qualifiers *criteria.Criterion

	// ExtraQualifiers is a second, independent qualifier slot for categories
	// that need qualifier presence and absence at once ("a cross, but not a
	// corner or free kick").
	ExtraQualifiers *criteria.Criterion
}

// Ptr returns a pointer to c, for filling Filter slots inline.
func Ptr(c criteria.Criterion) *criteria.Criterion { return &c }

// IsEmpty reports whether no slot is set.
func (f Filter) IsEmpty() bool {
	for _, s := range f.slots(model.Event{}) {
		if s.crit != nil {
			return false
		}
	}
	return true
}

// Merge returns a copy of f with every slot set in other overriding f's.
func (f Filter) Merge(other Filter) Filter {
	out := f
	set := func(dst **criteria.Criterion, src *criteria.Criterion) {
		if src != nil {
			*dst = src
		}
	}
	set(&out.Type, other.Type)
	set(&out.Team, other.Team)
	set(&out.Player, other.Player)
	set(&out.Period, other.Period)
	set(&out.Min, other.Min)
	set(&out.Sec, other.Sec)
	set(&out.Outcome, other.Outcome)
	set(&out.X, other.X)
	set(&out.Y, other.Y)
	set(&out.Qualifiers, other.Qualifiers)
	set(&out.ExtraQualifiers, other.ExtraQualifiers)
	return out
}

type slot struct {
	name     string
	crit     *criteria.Criterion
	observed any
}

// slots lists the filter slots in evaluation order, paired with the event
// attribute each one is evaluated against.
func (f Filter) slots(ev model.Event) []slot {
	return []slot{
		{"type_id", f.Type, ev.TypeID},
		{"player_id", f.Player, ev.PlayerID},
		{"team_id", f.Team, ev.TeamID},
		{"period_id", f.Period, ev.PeriodID},
		{"min", f.Min, ev.Min},
		{"sec", f.Sec, ev.Sec},
		{"outcome", f.Outcome, ev.Outcome},
		{"x", f.X, ev.X},
		{"y", f.Y, ev.Y},
		{"qualifiers", f.Qualifiers, ev.Qualifiers},
		{"extra_qualifiers", f.ExtraQualifiers, ev.Qualifiers},
	}
}

// Match reports whether ev satisfies every set slot. Evaluation stops at the
// first slot that fails.
func (f Filter) Match(ev model.Event) (bool, error) {
	for _, s := range f.slots(ev) {
		if s.crit == nil {
			continue
		}
		ok, err := s.crit.Evaluate(s.observed)
		if err != nil {
			return false, fmt.Errorf("slot %s: %w", s.name, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Apply returns the events matching f, preserving their relative order.
// An empty filter returns events unchanged. Source events are never modified.
func Apply(events []model.Event, f Filter) ([]model.Event, error) {
	if f.IsEmpty() {
		return events, nil
	}
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		ok, err := f.Match(ev)
		if err != nil {
			return nil, fmt.Errorf("filter event %d: %w", ev.ID, err)
		}
		if ok {
			out = append(out, ev)
		}
	}
	return out, nil
}
