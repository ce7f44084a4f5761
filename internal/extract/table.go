package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pable/go-opta-metrics/internal/model"
)

// ErrUnknownSplit is returned by Table.Split for an unrecognised split name.
var ErrUnknownSplit = errors.New("unknown split")

// Coord is a coordinate derived from a qualifier. Valid is false when the
// event carries no such qualifier, which is distinct from a coordinate of 0
// and from the numeric sentinel used for missing event attributes.
type Coord struct {
	Value float64
	Valid bool
}

func (c Coord) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// MarshalJSON encodes an absent coordinate as null.
func (c Coord) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// coordFrom reads the first qualifier with the given code as a float. A
// malformed or non-finite value reads as absent.
func coordFrom(ev model.Event, code int) Coord {
	v, ok := ev.QualifierValue(code)
	if !ok {
		return Coord{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Coord{}
	}
	return Coord{Value: f, Valid: true}
}

// Row is one projected event. Fields not listed in the category's columns are
// left at their zero value.
type Row struct {
	ID       int
	EventID  int
	PeriodID int
	Min      int
	Sec      int
	PlayerID int
	TeamID   int
	Outcome  int
	X, Y     float64

	TypeID     int
	TypeName   string
	EndX, EndY Coord
	GoalMouthY Coord
	GoalMouthZ Coord
	Qualifiers []model.Qualifier

	TeamName   string
	PlayerName string
}

func newRow(ev model.Event) Row {
	return Row{
		ID:       ev.ID,
		EventID:  ev.EventID,
		PeriodID: ev.PeriodID,
		Min:      ev.Min,
		Sec:      ev.Sec,
		PlayerID: ev.PlayerID,
		TeamID:   ev.TeamID,
		Outcome:  ev.Outcome,
		X:        ev.X,
		Y:        ev.Y,
		TypeID:   ev.TypeID,
	}
}

// Value returns the row's value for a column name, or nil for an unknown column.
func (r Row) Value(col string) any {
	switch col {
	case "id":
		return r.ID
	case "event_id":
		return r.EventID
	case "period_id":
		return r.PeriodID
	case "min":
		return r.Min
	case "sec":
		return r.Sec
	case "player_id":
		return r.PlayerID
	case "team_id":
		return r.TeamID
	case "outcome":
		return r.Outcome
	case "x_start":
		return r.X
	case "y_start":
		return r.Y
	case "x_end":
		return r.EndX
	case "y_end":
		return r.EndY
	case "type_id":
		return r.TypeID
	case "type_name":
		return r.TypeName
	case "goalmouth_y":
		return r.GoalMouthY
	case "goalmouth_z":
		return r.GoalMouthZ
	case "qualifiers":
		return r.Qualifiers
	case "team_name":
		return r.TeamName
	case "player_name":
		return r.PlayerName
	default:
		return nil
	}
}

// Table is a category's projection. An empty Table still reports its columns.
type Table struct {
	Category Category
	Rows     []Row
}

// Columns lists the table columns in order.
func (t Table) Columns() []string { return t.Category.Columns() }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Records returns each row as a column→value map, for serialisation.
func (t Table) Records() []map[string]any {
	cols := t.Columns()
	out := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			rec[c] = r.Value(c)
		}
		out = append(out, rec)
	}
	return out
}

// Where returns a table holding the rows for which keep is true, in order.
func (t Table) Where(keep func(Row) bool) Table {
	rows := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return Table{Category: t.Category, Rows: rows}
}

// Successful keeps rows with outcome 1.
func (t Table) Successful() Table {
	return t.Where(func(r Row) bool { return r.Outcome == model.OutcomeSuccess })
}

// Unsuccessful keeps rows with outcome 0.
func (t Table) Unsuccessful() Table {
	return t.Where(func(r Row) bool { return r.Outcome == model.OutcomeFailure })
}

// OnTarget keeps goals and saved attempts.
func (t Table) OnTarget() Table {
	return t.Where(func(r Row) bool {
		return r.TypeID == model.EventGoal || r.TypeID == model.EventAttemptSaved
	})
}

// OffTarget keeps shots that hit the post or missed.
func (t Table) OffTarget() Table {
	return t.Where(func(r Row) bool {
		return r.TypeID == model.EventPost || r.TypeID == model.EventMiss
	})
}

// Split names accepted by Table.Split.
const (
	SplitSuccessful   = "successful"
	SplitUnsuccessful = "unsuccessful"
	SplitOnTarget     = "on_target"
	SplitOffTarget    = "off_target"
)

// Split applies a named split. The category's own outcome labels are accepted
// too, so "won" and "conceded" work for fouls.
func (t Table) Split(name string) (Table, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "":
		return t, nil
	case name == SplitSuccessful || (t.Category.SuccessLabel != "" && name == t.Category.SuccessLabel):
		return t.Successful(), nil
	case name == SplitUnsuccessful || (t.Category.FailureLabel != "" && name == t.Category.FailureLabel):
		return t.Unsuccessful(), nil
	case name == SplitOnTarget:
		return t.OnTarget(), nil
	case name == SplitOffTarget:
		return t.OffTarget(), nil
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownSplit, name)
	}
}
