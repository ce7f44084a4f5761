package model

import (
	"sort"
	"strings"
)

// Roster holds the reference Team and Player tables that extractor rows are
// joined against. A Roster is built from the event feed and optionally
// enriched once from a squad feed; it is read-only afterwards.
// Players are kept sorted by id.
type Roster struct {
	teams   []Team
	players []Player
	named   bool
}

// NewRoster builds the reference tables for a match: the two teams from the
// header and every player id observed in the events.
func NewRoster(m Match, events []Event) *Roster {
	firstTeam := make(map[int]int)
	for _, ev := range events {
		if !ev.HasPlayer() {
			continue
		}
		if _, seen := firstTeam[ev.PlayerID]; !seen {
			firstTeam[ev.PlayerID] = ev.TeamID
		}
	}
	players := make([]Player, 0, len(firstTeam))
	for _, id := range ObservedPlayers(events) {
		players = append(players, Player{ID: id, TeamID: firstTeam[id]})
	}
	return &Roster{teams: m.Teams(), players: players}
}

// RestoreRoster rebuilds a Roster from previously stored tables.
func RestoreRoster(teams []Team, players []Player, named bool) *Roster {
	sorted := append([]Player(nil), players...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Roster{teams: append([]Team(nil), teams...), players: sorted, named: named}
}

// WithSquad returns a copy of r whose players are enriched from a squad feed.
// The join is a left outer join from the observed players: a player missing
// from the squad keeps an empty name, squad entries for players who never
// appear in the events are ignored. Duplicate squad entries (loans,
// transfers) are collapsed to the first occurrence.
func (r *Roster) WithSquad(squad []Player) *Roster {
	byID := make(map[int]Player, len(squad))
	for _, p := range squad {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = p
	}

	players := make([]Player, len(r.players))
	for i, p := range r.players {
		if s, ok := byID[p.ID]; ok {
			p.Name = s.Name
			p.FirstName = s.FirstName
			p.LastName = s.LastName
			p.KnownName = s.KnownName
			p.Position = s.Position
			if p.TeamID == UndefinedInt {
				p.TeamID = s.TeamID
			}
		}
		players[i] = p
	}
	return &Roster{teams: append([]Team(nil), r.teams...), players: players, named: true}
}

// HasPlayerNames reports whether a squad feed has been merged.
func (r *Roster) HasPlayerNames() bool { return r.named }

// Teams returns a copy of the team table.
func (r *Roster) Teams() []Team { return append([]Team(nil), r.teams...) }

// Players returns a copy of the player table.
func (r *Roster) Players() []Player { return append([]Player(nil), r.players...) }

// Team looks up a team by id.
func (r *Roster) Team(id int) (Team, bool) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Player looks up a player by id.
func (r *Roster) Player(id int) (Player, bool) {
	i := sort.Search(len(r.players), func(i int) bool { return r.players[i].ID >= id })
	if i < len(r.players) && r.players[i].ID == id {
		return r.players[i], true
	}
	return Player{}, false
}

// DisplayName is the name shown for a player: the squad "name", then the
// known name, then first and last name.
func (p Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.KnownName != "" {
		return p.KnownName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ObservedPlayers returns the distinct player ids referenced by events, ascending.
func ObservedPlayers(events []Event) []int {
	return collectPlayers(events, func(Event) bool { return true })
}

// TeamPlayers returns the distinct player ids that recorded at least one event
// for teamID, ascending.
func TeamPlayers(events []Event, teamID int) []int {
	return collectPlayers(events, func(ev Event) bool { return ev.TeamID == teamID })
}

func collectPlayers(events []Event, keep func(Event) bool) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, ev := range events {
		if !ev.HasPlayer() || !keep(ev) {
			continue
		}
		if _, ok := seen[ev.PlayerID]; ok {
			continue
		}
		seen[ev.PlayerID] = struct{}{}
		ids = append(ids, ev.PlayerID)
	}
	sort.Ints(ids)
	return ids
}
