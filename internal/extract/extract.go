package extract

import (
	"fmt"

	"github.com/pable/go-opta-metrics/internal/criteria"
	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/query"
)

// Option narrows a category's fixed filter at call time.
type Option func(*query.Filter)

// ForPlayer restricts the extraction to one player.
func ForPlayer(id int) Option {
	return func(f *query.Filter) { f.Player = query.Ptr(criteria.Eq(id)) }
}

// ForTeam restricts the extraction to one team.
func ForTeam(id int) Option {
	return func(f *query.Filter) { f.Team = query.Ptr(criteria.Eq(id)) }
}

// ForPeriod restricts the extraction to one period.
func ForPeriod(id int) Option {
	return func(f *query.Filter) { f.Period = query.Ptr(criteria.Eq(id)) }
}

// Where merges caller-built criteria over the category's filter. Slots set in
// extra replace the category's own.
func Where(extra query.Filter) Option {
	return func(f *query.Filter) { *f = f.Merge(extra) }
}

// Extractor runs categories over one match's events. It never modifies the
// events or the roster it was given.
type Extractor struct {
	events []model.Event
	roster *model.Roster
}

// New returns an Extractor over events, joining names from roster.
func New(events []model.Event, roster *model.Roster) *Extractor {
	return &Extractor{events: events, roster: roster}
}

// Roster returns the reference tables rows are joined against.
func (x *Extractor) Roster() *model.Roster { return x.roster }

// Extract runs cat. Rows whose team is missing from the roster are dropped;
// once squad names are merged, rows whose player is missing are dropped too.
func (x *Extractor) Extract(cat Category, opts ...Option) (Table, error) {
	f := cat.Filter
	for _, opt := range opts {
		opt(&f)
	}
	events, err := query.Apply(x.events, f)
	if err != nil {
		return Table{}, fmt.Errorf("extract %s: %w", cat.Name, err)
	}

	named := x.roster.HasPlayerNames()
	rows := make([]Row, 0, len(events))
	for _, ev := range events {
		team, ok := x.roster.Team(ev.TeamID)
		if !ok {
			continue
		}
		row := newRow(ev)
		row.TeamName = team.Name
		if named {
			p, ok := x.roster.Player(ev.PlayerID)
			if !ok {
				continue
			}
			row.PlayerName = p.DisplayName()
		}
		if cat.derive != nil {
			cat.derive(&row, ev)
		}
		rows = append(rows, row)
	}
	return Table{Category: cat, Rows: rows}, nil
}
