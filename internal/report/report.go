// Package report renders matches, extracted tables and player summaries as
// aligned text tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-opta-metrics/internal/aggregator"
	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/storage"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints the match header block followed by a blank line.
func PrintMatchSummary(w io.Writer, m model.Match) {
	fmt.Fprintf(w, "\n%s\n\n", m.String())
}

// PrintMatchList prints stored matches, newest first as given.
func PrintMatchList(w io.Writer, matches []storage.MatchRecord) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "COMPETITION", "MD", "HOME", "SCORE", "AWAY", "EVENTS", "SQUAD")
	for _, r := range matches {
		m := r.Match
		squad := "-"
		if r.SquadMerged {
			squad = "yes"
		}
		table.Append(
			strconv.Itoa(m.MatchID),
			formatDate(m),
			m.CompetitionName,
			formatInt(m.Matchday),
			m.HomeTeamName,
			fmt.Sprintf("%s-%s", formatInt(m.HomeScore), formatInt(m.AwayScore)),
			m.AwayTeamName,
			strconv.Itoa(r.Events),
			squad,
		)
	}
	table.Render()
}

// PrintTable prints an extracted table with one column per category column.
func PrintTable(w io.Writer, t extract.Table) {
	table := newTable(w)
	cols := t.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	table.Header(header...)
	for _, r := range t.Rows {
		cells := make([]any, len(cols))
		for i, c := range cols {
			cells[i] = FormatValue(r.Value(c))
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "%d %s rows\n", t.Len(), t.Category.Name)
}

// PrintSummary prints a per-player summary. Column headers use the
// category's outcome labels, so fouls read WON / CONCEDED.
func PrintSummary(w io.Writer, s aggregator.Summary) {
	switch s.Category.Kind {
	case extract.Shots:
		printShots(w, s.Shots)
	case extract.Single:
		table := newTable(w)
		table.Header("PLAYER_ID", "NAME", strings.ToUpper(s.Category.SuccessLabel))
		for _, p := range s.Players {
			table.Append(strconv.Itoa(p.PlayerID), p.Name, strconv.Itoa(p.Success))
		}
		table.Render()
	default:
		table := newTable(w)
		table.Header("PLAYER_ID", "NAME", "TOTAL",
			strings.ToUpper(s.Category.SuccessLabel), strings.ToUpper(s.Category.FailureLabel), "%")
		for _, p := range s.Players {
			table.Append(
				strconv.Itoa(p.PlayerID),
				p.Name,
				strconv.Itoa(p.Count),
				strconv.Itoa(p.Success),
				strconv.Itoa(p.Failure),
				fmt.Sprintf("%.2f", p.Ratio),
			)
		}
		table.Render()
	}
}

func printShots(w io.Writer, shots []aggregator.ShotStats) {
	table := newTable(w)
	table.Header("PLAYER_ID", "NAME", "GOAL", "SAVED", "POST", "MISS", "ON", "OFF", "TOTAL")
	for _, s := range shots {
		table.Append(
			strconv.Itoa(s.PlayerID),
			s.Name,
			strconv.Itoa(s.Goal),
			strconv.Itoa(s.AttemptSaved),
			strconv.Itoa(s.Post),
			strconv.Itoa(s.Miss),
			strconv.Itoa(s.OnTarget()),
			strconv.Itoa(s.OffTarget()),
			strconv.Itoa(s.Total()),
		)
	}
	table.Render()
}

// PrintTrend prints one row per match for a single player plus a total row.
func PrintTrend(w io.Writer, cat extract.Category, lines []aggregator.MatchLine) {
	table := newTable(w)
	if cat.Kind == extract.Shots {
		table.Header("MATCH", "DATE", "FIXTURE", "GOAL", "SAVED", "POST", "MISS", "TOTAL")
		for _, l := range lines {
			table.Append(strconv.Itoa(l.Match.MatchID), formatDate(l.Match), fixture(l.Match),
				strconv.Itoa(l.Shots.Goal), strconv.Itoa(l.Shots.AttemptSaved),
				strconv.Itoa(l.Shots.Post), strconv.Itoa(l.Shots.Miss), strconv.Itoa(l.Shots.Total()))
		}
		_, ss := aggregator.Totals(lines)
		table.Append("", "", "TOTAL", strconv.Itoa(ss.Goal), strconv.Itoa(ss.AttemptSaved),
			strconv.Itoa(ss.Post), strconv.Itoa(ss.Miss), strconv.Itoa(ss.Total()))
		table.Render()
		return
	}

	table.Header("MATCH", "DATE", "FIXTURE", "TOTAL",
		strings.ToUpper(cat.SuccessLabel), strings.ToUpper(cat.FailureLabel), "%")
	for _, l := range lines {
		table.Append(strconv.Itoa(l.Match.MatchID), formatDate(l.Match), fixture(l.Match),
			strconv.Itoa(l.Stats.Count), strconv.Itoa(l.Stats.Success),
			strconv.Itoa(l.Stats.Failure), fmt.Sprintf("%.2f", l.Stats.Ratio))
	}
	ps, _ := aggregator.Totals(lines)
	table.Append("", "", "TOTAL", strconv.Itoa(ps.Count), strconv.Itoa(ps.Success),
		strconv.Itoa(ps.Failure), fmt.Sprintf("%.2f", ps.Ratio))
	table.Render()
}

func fixture(m model.Match) string {
	return fmt.Sprintf("%s %s-%s %s", m.HomeTeamName, formatInt(m.HomeScore), formatInt(m.AwayScore), m.AwayTeamName)
}

// PrintRaw prints string cells under the given headers, as returned by a raw query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range rows {
		cells := make([]any, len(r))
		for i, v := range r {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

// PrintTypeCounts prints event counts per type.
func PrintTypeCounts(w io.Writer, counts []storage.TypeCount) {
	table := newTable(w)
	table.Header("TYPE_ID", "TYPE", "EVENTS")
	for _, c := range counts {
		name := model.EventTypeName(c.TypeID)
		if name == "" {
			name = "?"
		}
		table.Append(strconv.Itoa(c.TypeID), name, strconv.Itoa(c.Count))
	}
	table.Render()
}

// PrintCompetitions prints stored match counts per competition and season.
func PrintCompetitions(w io.Writer, comps []storage.CompetitionCount) {
	table := newTable(w)
	table.Header("COMPETITION", "SEASON", "MATCHES")
	for _, c := range comps {
		table.Append(c.Competition, c.Season, strconv.Itoa(c.Matches))
	}
	table.Render()
}

// FormatValue renders a row value as a table cell. Absent coordinates and
// empty names print as blank cells.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case extract.Coord:
		return x.String()
	case []model.Qualifier:
		parts := make([]string, len(x))
		for i, q := range x {
			if q.Value == "" {
				parts[i] = strconv.Itoa(q.TypeID)
				continue
			}
			parts[i] = fmt.Sprintf("%d=%s", q.TypeID, q.Value)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(x)
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// TableJSON is the JSON document written for an extracted table.
type TableJSON struct {
	Category string           `json:"category"`
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
}

// NewTableJSON converts a table to its JSON document.
func NewTableJSON(t extract.Table) TableJSON {
	return TableJSON{Category: t.Category.Name, Columns: t.Columns(), Rows: t.Records()}
}

// SummaryJSON is the JSON document written for a summary.
type SummaryJSON struct {
	Category     string                   `json:"category"`
	SuccessLabel string                   `json:"success_label"`
	FailureLabel string                   `json:"failure_label,omitempty"`
	Players      []aggregator.PlayerStats `json:"players,omitempty"`
	Shots        []ShotJSON               `json:"shots,omitempty"`
}

// ShotJSON flattens ShotStats with its derived totals.
type ShotJSON struct {
	aggregator.ShotStats
	OnTarget  int `json:"on_target"`
	OffTarget int `json:"off_target"`
	Total     int `json:"total"`
}

// NewSummaryJSON converts a summary to its JSON document.
func NewSummaryJSON(s aggregator.Summary) SummaryJSON {
	out := SummaryJSON{
		Category:     s.Category.Name,
		SuccessLabel: s.Category.SuccessLabel,
		FailureLabel: s.Category.FailureLabel,
		Players:      s.Players,
	}
	for _, sh := range s.Shots {
		out.Shots = append(out.Shots, ShotJSON{
			ShotStats: sh,
			OnTarget:  sh.OnTarget(),
			OffTarget: sh.OffTarget(),
			Total:     sh.Total(),
		})
	}
	return out
}

func formatDate(m model.Match) string {
	if m.GameDate.Equal(model.UndefinedDate) {
		return "-"
	}
	return m.GameDate.Format(dateLayout)
}

func formatInt(n int) string {
	if n == model.UndefinedInt {
		return "-"
	}
	return strconv.Itoa(n)
}
