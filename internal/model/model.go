package model

import (
	"fmt"
	"time"
)

// Sentinels standing in for attributes that are absent from the source feed.
const (
	UndefinedInt   = -9999
	UndefinedFloat = -9999.9
)

// UndefinedDate is the far-future date used when a timestamp is absent or unparsable.
var UndefinedDate = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Outcome values carried by Event.Outcome.
const (
	OutcomeFailure = 0
	OutcomeSuccess = 1
)

// ---- Raw records emitted by the parser ----

// Qualifier is a situational tag attached to an Event (e.g. "this pass was a cross").
// Value is kept verbatim; depending on TypeID it may be a coordinate or a foreign key.
type Qualifier struct {
	ID     int    `json:"id"`
	TypeID int    `json:"type_id"` // qualifier code, see QualifierTypeName
	Value  string `json:"value"`
}

// Event is one occurrence in a match. Events are built once by the parser and
// treated as read-only afterwards; filters and extractors derive new slices.
type Event struct {
	ID           int
	EventID      int // ordinal within the match
	TypeID       int // event category code, see EventTypeName
	PeriodID     int
	Min, Sec     int
	TeamID       int
	PlayerID     int
	Outcome      int // OutcomeSuccess, OutcomeFailure or UndefinedInt
	Assist       int
	Keypass      int
	X, Y         float64
	Timestamp    time.Time
	LastModified time.Time
	Qualifiers   []Qualifier // feed order
}

// NewEvent returns an Event with every attribute set to its sentinel.
func NewEvent() Event {
	return Event{
		ID:           UndefinedInt,
		EventID:      UndefinedInt,
		TypeID:       UndefinedInt,
		PeriodID:     UndefinedInt,
		Min:          UndefinedInt,
		Sec:          UndefinedInt,
		TeamID:       UndefinedInt,
		PlayerID:     UndefinedInt,
		Outcome:      UndefinedInt,
		Assist:       UndefinedInt,
		Keypass:      UndefinedInt,
		X:            UndefinedFloat,
		Y:            UndefinedFloat,
		Timestamp:    UndefinedDate,
		LastModified: UndefinedDate,
		Qualifiers:   []Qualifier{},
	}
}

// NewQualifier returns a Qualifier with sentinel ids and an empty value.
func NewQualifier() Qualifier {
	return Qualifier{ID: UndefinedInt, TypeID: UndefinedInt}
}

// QualifierValue returns the value of the first qualifier with the given code.
func (e Event) QualifierValue(typeID int) (string, bool) {
	for _, q := range e.Qualifiers {
		if q.TypeID == typeID {
			return q.Value, true
		}
	}
	return "", false
}

// HasQualifier reports whether any qualifier carries the given code.
func (e Event) HasQualifier(typeID int) bool {
	_, ok := e.QualifierValue(typeID)
	return ok
}

// HasPlayer reports whether the event references a player.
func (e Event) HasPlayer() bool { return e.PlayerID != UndefinedInt }

// Match is one fixture's metadata, parsed once from the feed header.
type Match struct {
	MatchID         int
	CompetitionID   int
	CompetitionName string
	SeasonID        int
	SeasonName      string
	Matchday        int
	GameDate        time.Time
	Period1Start    time.Time
	Period2Start    time.Time
	HomeTeamID      int
	HomeTeamName    string
	HomeScore       int
	AwayTeamID      int
	AwayTeamName    string
	AwayScore       int
	AdditionalInfo  string
}

// NewMatch returns a Match with sentinel ids, scores and dates.
func NewMatch() Match {
	return Match{
		MatchID:       UndefinedInt,
		CompetitionID: UndefinedInt,
		SeasonID:      UndefinedInt,
		Matchday:      UndefinedInt,
		GameDate:      UndefinedDate,
		Period1Start:  UndefinedDate,
		Period2Start:  UndefinedDate,
		HomeTeamID:    UndefinedInt,
		HomeScore:     UndefinedInt,
		AwayTeamID:    UndefinedInt,
		AwayScore:     UndefinedInt,
	}
}

func (m Match) String() string {
	return fmt.Sprintf("%s (%s). Matchday %d\nDate: %s\n%s %d - %d %s\nAdditional info: %s",
		m.CompetitionName, m.SeasonName, m.Matchday,
		m.GameDate.Format("2006-01-02 15:04:05"),
		m.HomeTeamName, m.HomeScore, m.AwayScore, m.AwayTeamName,
		m.AdditionalInfo)
}

// Teams returns the home and away teams named in the match header.
func (m Match) Teams() []Team {
	return []Team{
		{ID: m.HomeTeamID, Name: m.HomeTeamName},
		{ID: m.AwayTeamID, Name: m.AwayTeamName},
	}
}

type Team struct {
	ID   int
	Name string
}

// Player is a participant. Only ID is known from the event feed; the remaining
// fields come from a squad feed merged in later.
type Player struct {
	ID        int
	TeamID    int
	Position  string
	Name      string
	FirstName string
	LastName  string
	KnownName string
}

// Feed is everything read from one event feed.
type Feed struct {
	Match  Match
	Events []Event
	Hash   string // SHA-256 of the source file, empty when read from a stream
}
