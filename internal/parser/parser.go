// Package parser reads Opta-style XML feeds: the F24 event feed (match header,
// events and their qualifiers) and the SRML squad feed (team rosters).
// Malformed scalar attributes never fail a parse; they become model sentinels.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pable/go-opta-metrics/internal/model"
)

// ErrNoGame is returned when an event feed has no Game element.
var ErrNoGame = errors.New("no Game element in feed")

// Stats summarises one parse.
type Stats struct {
	Events     int
	Qualifiers int
	Fallbacks  int // non-empty attributes replaced by a sentinel
}

type xmlGame struct {
	ID              string     `xml:"id,attr"`
	AdditionalInfo  string     `xml:"additional_info,attr"`
	AwayScore       string     `xml:"away_score,attr"`
	AwayTeamID      string     `xml:"away_team_id,attr"`
	AwayTeamName    string     `xml:"away_team_name,attr"`
	CompetitionID   string     `xml:"competition_id,attr"`
	CompetitionName string     `xml:"competition_name,attr"`
	GameDate        string     `xml:"game_date,attr"`
	HomeScore       string     `xml:"home_score,attr"`
	HomeTeamID      string     `xml:"home_team_id,attr"`
	HomeTeamName    string     `xml:"home_team_name,attr"`
	Matchday        string     `xml:"matchday,attr"`
	Period1Start    string     `xml:"period_1_start,attr"`
	Period2Start    string     `xml:"period_2_start,attr"`
	SeasonID        string     `xml:"season_id,attr"`
	SeasonName      string     `xml:"season_name,attr"`
	Events          []xmlEvent `xml:"Event"`
}

type xmlEvent struct {
	ID           string         `xml:"id,attr"`
	EventID      string         `xml:"event_id,attr"`
	TypeID       string         `xml:"type_id,attr"`
	PeriodID     string         `xml:"period_id,attr"`
	Min          string         `xml:"min,attr"`
	Sec          string         `xml:"sec,attr"`
	TeamID       string         `xml:"team_id,attr"`
	PlayerID     string         `xml:"player_id,attr"`
	Outcome      string         `xml:"outcome,attr"`
	Assist       string         `xml:"assist,attr"`
	Keypass      string         `xml:"keypass,attr"`
	X            string         `xml:"x,attr"`
	Y            string         `xml:"y,attr"`
	Timestamp    string         `xml:"timestamp,attr"`
	LastModified string         `xml:"last_modified,attr"`
	Qualifiers   []xmlQualifier `xml:"Q"`
}

type xmlQualifier struct {
	ID          string `xml:"id,attr"`
	QualifierID string `xml:"qualifier_id,attr"`
	Value       string `xml:"value,attr"`
}

// ParseEventsFile parses the F24 feed at path. The returned feed's Hash is the
// SHA-256 of the file contents and serves as an idempotency key.
func ParseEventsFile(path string) (*model.Feed, Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("read feed: %w", err)
	}
	feed, stats, err := ParseEvents(bytes.NewReader(data))
	if err != nil {
		return nil, stats, err
	}
	feed.Hash = fmt.Sprintf("%x", sha256.Sum256(data))
	return feed, stats, nil
}

// ParseEvents reads an F24 feed. The first Game element found (at any depth)
// supplies the match header; its Event children, in document order, become
// the event list.
func ParseEvents(r io.Reader) (*model.Feed, Stats, error) {
	var game xmlGame
	found, err := decodeFirst(r, "Game", &game)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("decode feed: %w", err)
	}
	if !found {
		return nil, Stats{}, ErrNoGame
	}

	c := &coercer{}
	feed := &model.Feed{
		Match:  buildMatch(c, game),
		Events: make([]model.Event, 0, len(game.Events)),
	}
	stats := Stats{}
	for _, xe := range game.Events {
		ev := buildEvent(c, xe)
		stats.Qualifiers += len(ev.Qualifiers)
		feed.Events = append(feed.Events, ev)
	}
	stats.Events = len(feed.Events)
	stats.Fallbacks = c.fallbacks
	return feed, stats, nil
}

func buildMatch(c *coercer, g xmlGame) model.Match {
	m := model.NewMatch()
	m.MatchID = c.toInt(g.ID)
	m.AdditionalInfo = g.AdditionalInfo
	m.AwayScore = c.toInt(g.AwayScore)
	m.AwayTeamID = c.toInt(g.AwayTeamID)
	m.AwayTeamName = g.AwayTeamName
	m.CompetitionID = c.toInt(g.CompetitionID)
	m.CompetitionName = g.CompetitionName
	m.GameDate = c.toDate(g.GameDate)
	m.HomeScore = c.toInt(g.HomeScore)
	m.HomeTeamID = c.toInt(g.HomeTeamID)
	m.HomeTeamName = g.HomeTeamName
	m.Matchday = c.toInt(g.Matchday)
	m.Period1Start = c.toDate(g.Period1Start)
	m.Period2Start = c.toDate(g.Period2Start)
	m.SeasonID = c.toInt(g.SeasonID)
	m.SeasonName = g.SeasonName
	return m
}

func buildEvent(c *coercer, xe xmlEvent) model.Event {
	ev := model.NewEvent()
	ev.ID = c.toInt(xe.ID)
	ev.EventID = c.toInt(xe.EventID)
	ev.TypeID = c.toInt(xe.TypeID)
	ev.PeriodID = c.toInt(xe.PeriodID)
	ev.Min = c.toInt(xe.Min)
	ev.Sec = c.toInt(xe.Sec)
	ev.TeamID = c.toInt(xe.TeamID)
	ev.PlayerID = c.toInt(xe.PlayerID)
	ev.Outcome = c.toInt(xe.Outcome)
	ev.Assist = c.toInt(xe.Assist)
	ev.Keypass = c.toInt(xe.Keypass)
	ev.X = c.toFloat(xe.X)
	ev.Y = c.toFloat(xe.Y)
	ev.Timestamp = c.toDate(xe.Timestamp)
	ev.LastModified = c.toDate(xe.LastModified)
	ev.Qualifiers = make([]model.Qualifier, 0, len(xe.Qualifiers))
	for _, xq := range xe.Qualifiers {
		q := model.NewQualifier()
		q.ID = c.toInt(xq.ID)
		q.TypeID = c.toInt(xq.QualifierID)
		q.Value = xq.Value
		ev.Qualifiers = append(ev.Qualifiers, q)
	}
	return ev
}

type xmlSquadTeam struct {
	UID     string           `xml:"uID,attr"`
	Name    string           `xml:"Name"`
	Players []xmlSquadPlayer `xml:"Player"`
}

type xmlSquadPlayer struct {
	UID      string `xml:"uID,attr"`
	Position string `xml:"Position"`
	Name     string `xml:"Name"`
	Stats    []struct {
		Type  string `xml:"Type,attr"`
		Value string `xml:",chardata"`
	} `xml:"Stat"`
}

// ParseSquadsFile parses the SRML squad feed at path.
func ParseSquadsFile(path string) ([]model.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open squads: %w", err)
	}
	defer f.Close()
	return ParseSquads(f)
}

// ParseSquads reads every Team element (at any depth) of an SRML squad feed
// and returns its players in document order. Player and team uIDs carry a
// one-letter prefix ("p12345", "t175") that is stripped. Duplicates are kept;
// model.Roster.WithSquad collapses them.
func ParseSquads(r io.Reader) ([]model.Player, error) {
	dec := xml.NewDecoder(r)
	var players []model.Player
	c := &coercer{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode squads: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Team" {
			continue
		}
		var team xmlSquadTeam
		if err := dec.DecodeElement(&team, &se); err != nil {
			return nil, fmt.Errorf("decode squad team: %w", err)
		}
		teamID := c.toInt(stripPrefix(team.UID))
		for _, xp := range team.Players {
			players = append(players, buildPlayer(c, xp, teamID))
		}
	}
	return players, nil
}

func buildPlayer(c *coercer, xp xmlSquadPlayer, teamID int) model.Player {
	p := model.Player{
		ID:       c.toInt(stripPrefix(xp.UID)),
		TeamID:   teamID,
		Position: strings.TrimSpace(xp.Position),
		Name:     strings.TrimSpace(xp.Name),
	}
	for _, st := range xp.Stats {
		v := strings.TrimSpace(st.Value)
		switch st.Type {
		case "name":
			p.Name = v
		case "first_name":
			p.FirstName = v
		case "last_name":
			p.LastName = v
		case "known_name":
			p.KnownName = v
		case "position":
			if p.Position == "" {
				p.Position = v
			}
		}
	}
	return p
}

func stripPrefix(uid string) string {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return ""
	}
	return uid[1:]
}

// decodeFirst decodes the first element named local into v.
func decodeFirst(r io.Reader, local string, v any) (bool, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == local {
			return true, dec.DecodeElement(v, &se)
		}
	}
}
