// Package extract turns the event stream into per-category tables: each
// category is a fixed query.Filter plus a projection that shapes matching
// events into rows enriched with team and player names.
package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-opta-metrics/internal/criteria"
	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/query"
)

// ErrUnknownCategory is returned by Lookup for a name with no category.
var ErrUnknownCategory = errors.New("unknown category")

// Kind selects how a category's outcomes are aggregated.
type Kind int

const (
	// Binary categories split on outcome 1 / outcome 0.
	Binary Kind = iota
	// Single categories have no meaningful failure; every event counts once.
	Single
	// Shots split four ways by event type.
	Shots
	// Listing is the unfiltered projection; it is not aggregated.
	Listing
)

func (k Kind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Single:
		return "single"
	case Shots:
		return "shots"
	case Listing:
		return "listing"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column names shared by every category.
var baseColumns = []string{
	"id", "event_id", "period_id", "min", "sec", "player_id",
	"team_id", "outcome", "x_start", "y_start",
}

var nameColumns = []string{"team_name", "player_name"}

// Category is a named, fixed query with its projection and outcome labels.
type Category struct {
	Name         string
	Kind         Kind
	Filter       query.Filter
	SuccessLabel string // "successful", "won", "taken", ...
	FailureLabel string // empty for Single categories

	extra  []string
	derive func(*Row, model.Event)
}

// Columns lists the table columns in order.
func (c Category) Columns() []string {
	cols := make([]string, 0, len(baseColumns)+len(c.extra)+len(nameColumns))
	cols = append(cols, baseColumns...)
	cols = append(cols, c.extra...)
	return append(cols, nameColumns...)
}

var passEnd = []string{"x_end", "y_end"}

func deriveEnd(r *Row, ev model.Event) {
	r.EndX = coordFrom(ev, model.QualifierPassEndX)
	r.EndY = coordFrom(ev, model.QualifierPassEndY)
}

var shotLabels = map[int]string{
	model.EventMiss:         "Miss",
	model.EventPost:         "Post",
	model.EventAttemptSaved: "Attempt Saved",
	model.EventGoal:         "Goal",
}

func deriveShot(r *Row, ev model.Event) {
	r.TypeName = shotLabels[ev.TypeID]
	r.GoalMouthY = coordFrom(ev, model.QualifierGoalMouthY)
	r.GoalMouthZ = coordFrom(ev, model.QualifierGoalMouthZ)
}

func deriveListing(r *Row, ev model.Event) {
	r.TypeName = model.EventTypeName(ev.TypeID)
	r.Qualifiers = append([]model.Qualifier(nil), ev.Qualifiers...)
}

func ofType(code int) *criteria.Criterion { return query.Ptr(criteria.Eq(code)) }

// The fixed categories.
var (
	Passes = Category{
		Name: "passes", Kind: Binary,
		Filter: query.Filter{
			Type: ofType(model.EventPass),
			Qualifiers: query.Ptr(criteria.QNotIn(
				model.QualifierCross, model.QualifierFreeKickTaken, model.QualifierCornerTaken,
				model.QualifierThrowIn, model.QualifierKeeperThrow, model.QualifierGoalKick,
			)),
		},
		SuccessLabel: "successful", FailureLabel: "unsuccessful",
		extra: passEnd, derive: deriveEnd,
	}

	Crosses = Category{
		Name: "crosses", Kind: Binary,
		Filter: query.Filter{
			Type:            ofType(model.EventPass),
			Qualifiers:      query.Ptr(criteria.QIn(model.QualifierCross)),
			ExtraQualifiers: query.Ptr(criteria.QNotIn(model.QualifierFreeKickTaken, model.QualifierCornerTaken)),
		},
		SuccessLabel: "successful", FailureLabel: "unsuccessful",
		extra: passEnd, derive: deriveEnd,
	}

	Corners = Category{
		Name: "corners", Kind: Single,
		Filter: query.Filter{
			Type:       ofType(model.EventPass),
			Qualifiers: query.Ptr(criteria.QIn(model.QualifierCornerTaken)),
		},
		SuccessLabel: "taken",
		extra:        passEnd, derive: deriveEnd,
	}

	ShotsCategory = Category{
		Name: "shots", Kind: Shots,
		Filter: query.Filter{
			Type: query.Ptr(criteria.In(model.EventMiss, model.EventPost, model.EventAttemptSaved, model.EventGoal)),
		},
		extra:  []string{"type_id", "type_name", "goalmouth_y", "goalmouth_z"},
		derive: deriveShot,
	}

	AerialDuels = Category{
		Name: "aerial_duels", Kind: Binary,
		Filter:       query.Filter{Type: ofType(model.EventAerial)},
		SuccessLabel: "successful", FailureLabel: "unsuccessful",
	}

	Fouls = Category{
		Name: "fouls", Kind: Binary,
		Filter:       query.Filter{Type: ofType(model.EventFoul)},
		SuccessLabel: "won", FailureLabel: "conceded",
	}

	BallRecoveries = Category{
		Name: "ball_recoveries", Kind: Single,
		Filter:       query.Filter{Type: ofType(model.EventBallRecovery)},
		SuccessLabel: "won",
	}

	Clearances = Category{
		Name: "clearances", Kind: Binary,
		Filter:       query.Filter{Type: ofType(model.EventClearance)},
		SuccessLabel: "won", FailureLabel: "lost",
	}

	Tackles = Category{
		Name: "tackles", Kind: Binary,
		Filter:       query.Filter{Type: ofType(model.EventTackle)},
		SuccessLabel: "won possession", FailureLabel: "no possession",
	}

	Interceptions = Category{
		Name: "interceptions", Kind: Single,
		Filter:       query.Filter{Type: ofType(model.EventInterception)},
		SuccessLabel: "successful",
	}

	// AllEvents projects every event with its event type name and qualifiers.
	AllEvents = Category{
		Name: "all", Kind: Listing,
		extra:  []string{"type_id", "type_name", "qualifiers"},
		derive: deriveListing,
	}
)

var registry = func() map[string]Category {
	m := make(map[string]Category)
	for _, c := range []Category{
		Passes, Crosses, Corners, ShotsCategory, AerialDuels, Fouls,
		BallRecoveries, Clearances, Tackles, Interceptions, AllEvents,
	} {
		m[c.Name] = c
	}
	return m
}()

// Lookup finds a category by name. Hyphens and case are ignored so that
// "Aerial-Duels" resolves like "aerial_duels".
func Lookup(name string) (Category, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	c, ok := registry[key]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownCategory, name, strings.Join(Names(), ", "))
	}
	return c, nil
}

// Names returns every category name, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
