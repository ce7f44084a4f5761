package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-opta-metrics/internal/model"
)

// MatchRecord is a stored match header plus ingest bookkeeping.
type MatchRecord struct {
	Match       model.Match `json:"match"`
	Hash        string      `json:"hash"`
	IngestID    string      `json:"ingest_id"`
	IngestedAt  time.Time   `json:"ingested_at"`
	SquadMerged bool        `json:"squad_merged"`
	Events      int         `json:"events"`
}

const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return model.UndefinedDate
	}
	return t
}

// MatchExists returns true if a match parsed from a file with the given hash is stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores a feed and its roster in one transaction, replacing any
// previous copy of the same match id. It returns the new ingest id.
func (db *DB) InsertMatch(feed *model.Feed, roster *model.Roster) (string, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	m := feed.Match
	if _, err := clearMatch(tx, m.MatchID); err != nil {
		return "", err
	}

	ingestID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO matches(
			match_id, hash, ingest_id, ingested_at,
			competition_id, competition_name, season_id, season_name, matchday,
			game_date, period_1_start, period_2_start,
			home_team_id, home_team_name, home_score,
			away_team_id, away_team_name, away_score,
			additional_info, squad_merged
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.MatchID, feed.Hash, ingestID, formatTime(time.Now()),
		m.CompetitionID, m.CompetitionName, m.SeasonID, m.SeasonName, m.Matchday,
		formatTime(m.GameDate), formatTime(m.Period1Start), formatTime(m.Period2Start),
		m.HomeTeamID, m.HomeTeamName, m.HomeScore,
		m.AwayTeamID, m.AwayTeamName, m.AwayScore,
		m.AdditionalInfo, boolInt(roster.HasPlayerNames()),
	)
	if err != nil {
		return "", fmt.Errorf("insert match %d: %w", m.MatchID, err)
	}

	for _, t := range roster.Teams() {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO teams(match_id, team_id, name) VALUES (?,?,?)`,
			m.MatchID, t.ID, t.Name); err != nil {
			return "", fmt.Errorf("insert team %d: %w", t.ID, err)
		}
	}

	pstmt, err := tx.Prepare(`
		INSERT INTO players(match_id, player_id, team_id, position, name, first_name, last_name, known_name)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer pstmt.Close()
	for _, p := range roster.Players() {
		if _, err := pstmt.Exec(m.MatchID, p.ID, p.TeamID, p.Position,
			p.Name, p.FirstName, p.LastName, p.KnownName); err != nil {
			return "", fmt.Errorf("insert player %d: %w", p.ID, err)
		}
	}

	estmt, err := tx.Prepare(`
		INSERT INTO events(
			match_id, seq, id, event_id, type_id, period_id, min, sec,
			team_id, player_id, outcome, assist, keypass, x, y,
			timestamp, last_modified
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer estmt.Close()
	qstmt, err := tx.Prepare(`
		INSERT INTO qualifiers(match_id, event_seq, seq, id, qualifier_id, value)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer qstmt.Close()

	for seq, ev := range feed.Events {
		_, err := estmt.Exec(
			m.MatchID, seq, ev.ID, ev.EventID, ev.TypeID, ev.PeriodID, ev.Min, ev.Sec,
			ev.TeamID, ev.PlayerID, ev.Outcome, ev.Assist, ev.Keypass, ev.X, ev.Y,
			formatTime(ev.Timestamp), formatTime(ev.LastModified),
		)
		if err != nil {
			return "", fmt.Errorf("insert event %d: %w", ev.ID, err)
		}
		for qseq, q := range ev.Qualifiers {
			if _, err := qstmt.Exec(m.MatchID, seq, qseq, q.ID, q.TypeID, q.Value); err != nil {
				return "", fmt.Errorf("insert qualifier %d of event %d: %w", q.ID, ev.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return ingestID, nil
}

const matchColumns = `
	m.match_id, m.hash, m.ingest_id, m.ingested_at,
	m.competition_id, m.competition_name, m.season_id, m.season_name, m.matchday,
	m.game_date, m.period_1_start, m.period_2_start,
	m.home_team_id, m.home_team_name, m.home_score,
	m.away_team_id, m.away_team_name, m.away_score,
	m.additional_info, m.squad_merged,
	(SELECT COUNT(1) FROM events e WHERE e.match_id = m.match_id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var r MatchRecord
	var ingestedAt, gameDate, p1, p2 string
	var squad int
	m := &r.Match
	err := row.Scan(
		&m.MatchID, &r.Hash, &r.IngestID, &ingestedAt,
		&m.CompetitionID, &m.CompetitionName, &m.SeasonID, &m.SeasonName, &m.Matchday,
		&gameDate, &p1, &p2,
		&m.HomeTeamID, &m.HomeTeamName, &m.HomeScore,
		&m.AwayTeamID, &m.AwayTeamName, &m.AwayScore,
		&m.AdditionalInfo, &squad, &r.Events,
	)
	if err != nil {
		return MatchRecord{}, err
	}
	r.IngestedAt = parseTime(ingestedAt)
	m.GameDate = parseTime(gameDate)
	m.Period1Start = parseTime(p1)
	m.Period2Start = parseTime(p2)
	r.SquadMerged = squad != 0
	return r, nil
}

// ListMatches returns all stored matches ordered by game date desc.
func (db *DB) ListMatches() ([]MatchRecord, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches m ORDER BY m.game_date DESC, m.match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetMatch returns one stored match, or ErrMatchNotFound.
func (db *DB) GetMatch(matchID int) (*MatchRecord, error) {
	r, err := scanMatch(db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches m WHERE m.match_id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// PlayerMatches returns the ids of stored matches whose roster includes the
// player, oldest first.
func (db *DB) PlayerMatches(playerID int) ([]int, error) {
	rows, err := db.conn.Query(`
		SELECT m.match_id FROM matches m
		JOIN players p ON p.match_id = m.match_id
		WHERE p.player_id = ?
		ORDER BY m.game_date, m.match_id`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadFeed rebuilds a stored match's feed (events in feed order, each with its
// qualifiers in feed order) and roster.
func (db *DB) LoadFeed(matchID int) (*model.Feed, *model.Roster, error) {
	rec, err := db.GetMatch(matchID)
	if err != nil {
		return nil, nil, err
	}
	events, err := db.loadEvents(matchID)
	if err != nil {
		return nil, nil, fmt.Errorf("load events: %w", err)
	}
	roster, err := db.loadRoster(matchID, rec.SquadMerged)
	if err != nil {
		return nil, nil, fmt.Errorf("load roster: %w", err)
	}
	return &model.Feed{Match: rec.Match, Events: events, Hash: rec.Hash}, roster, nil
}

func (db *DB) loadEvents(matchID int) ([]model.Event, error) {
	rows, err := db.conn.Query(`
		SELECT id, event_id, type_id, period_id, min, sec,
		       team_id, player_id, outcome, assist, keypass, x, y,
		       timestamp, last_modified
		FROM events WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	for rows.Next() {
		ev := model.NewEvent()
		var ts, lm string
		if err := rows.Scan(
			&ev.ID, &ev.EventID, &ev.TypeID, &ev.PeriodID, &ev.Min, &ev.Sec,
			&ev.TeamID, &ev.PlayerID, &ev.Outcome, &ev.Assist, &ev.Keypass, &ev.X, &ev.Y,
			&ts, &lm,
		); err != nil {
			rows.Close()
			return nil, err
		}
		ev.Timestamp = parseTime(ts)
		ev.LastModified = parseTime(lm)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Events are fully read before qualifiers are queried; the pool holds one connection.
	qrows, err := db.conn.Query(`
		SELECT event_seq, id, qualifier_id, value
		FROM qualifiers WHERE match_id = ? ORDER BY event_seq, seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()
	for qrows.Next() {
		var seq int
		q := model.NewQualifier()
		if err := qrows.Scan(&seq, &q.ID, &q.TypeID, &q.Value); err != nil {
			return nil, err
		}
		if seq < 0 || seq >= len(events) {
			return nil, fmt.Errorf("qualifier %d references missing event seq %d", q.ID, seq)
		}
		events[seq].Qualifiers = append(events[seq].Qualifiers, q)
	}
	return events, qrows.Err()
}

func (db *DB) loadRoster(matchID int, named bool) (*model.Roster, error) {
	rows, err := db.conn.Query(`SELECT team_id, name FROM teams WHERE match_id = ? ORDER BY rowid`, matchID)
	if err != nil {
		return nil, err
	}
	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	prows, err := db.conn.Query(`
		SELECT player_id, team_id, position, name, first_name, last_name, known_name
		FROM players WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	var players []model.Player
	for prows.Next() {
		var p model.Player
		if err := prows.Scan(&p.ID, &p.TeamID, &p.Position, &p.Name, &p.FirstName, &p.LastName, &p.KnownName); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	return model.RestoreRoster(teams, players, named), nil
}

// DeleteMatch removes one match and everything stored for it.
func (db *DB) DeleteMatch(matchID int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	found, err := clearMatch(tx, matchID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
