package storage

import (
	"database/sql"
	"fmt"
	"strings"
)

// Overview holds database-wide counts.
type Overview struct {
	Matches       int    `json:"matches"`
	Events        int    `json:"events"`
	Qualifiers    int    `json:"qualifiers"`
	Players       int    `json:"players"`
	Competitions  int    `json:"competition_count"`
	EarliestMatch string `json:"earliest_match"` // "YYYY-MM-DD", empty when no match is stored
	LatestMatch   string `json:"latest_match"`
}

// GetOverview returns database-wide counts.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	var earliest, latest sql.NullString
	err := db.conn.QueryRow(`
		SELECT
			(SELECT COUNT(1) FROM matches),
			(SELECT COUNT(1) FROM events),
			(SELECT COUNT(1) FROM qualifiers),
			(SELECT COUNT(DISTINCT player_id) FROM players),
			(SELECT COUNT(DISTINCT competition_id) FROM matches),
			(SELECT MIN(substr(game_date, 1, 10)) FROM matches),
			(SELECT MAX(substr(game_date, 1, 10)) FROM matches)`).
		Scan(&ov.Matches, &ov.Events, &ov.Qualifiers, &ov.Players, &ov.Competitions, &earliest, &latest)
	if err != nil {
		return Overview{}, fmt.Errorf("query overview: %w", err)
	}
	ov.EarliestMatch = earliest.String
	ov.LatestMatch = latest.String
	return ov, nil
}

// TypeCount is the number of stored events of one event type.
type TypeCount struct {
	TypeID int `json:"type_id"`
	Count  int `json:"count"`
}

// EventTypeCounts returns event counts per type, most frequent first. When
// matchIDs is non-empty only those matches are counted.
func (db *DB) EventTypeCounts(matchIDs []int, limit int) ([]TypeCount, error) {
	q := `SELECT type_id, COUNT(1) AS n FROM events`
	args := make([]any, 0, len(matchIDs)+1)
	if len(matchIDs) > 0 {
		q += ` WHERE match_id IN (` + placeholders(len(matchIDs)) + `)`
		for _, id := range matchIDs {
			args = append(args, id)
		}
	}
	q += ` GROUP BY type_id ORDER BY n DESC, type_id`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.TypeID, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// CompetitionCount is the number of stored matches of one competition season.
type CompetitionCount struct {
	Competition string `json:"competition"`
	Season      string `json:"season"`
	Matches     int    `json:"matches"`
}

// CompetitionCounts returns stored matches per competition and season.
func (db *DB) CompetitionCounts() ([]CompetitionCount, error) {
	rows, err := db.conn.Query(`
		SELECT competition_name, season_name, COUNT(1)
		FROM matches GROUP BY competition_id, competition_name, season_id, season_name
		ORDER BY COUNT(1) DESC, competition_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompetitionCount
	for rows.Next() {
		var c CompetitionCount
		if err := rows.Scan(&c.Competition, &c.Season, &c.Matches); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns its columns and rows rendered
// as strings. NULL is rendered as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
