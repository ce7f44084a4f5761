// Package aggregator rolls an extracted category table up into one ranked
// summary row per player.
package aggregator

import (
	"fmt"
	"math"
	"sort"

	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/model"
)

// PlayerStats is one player's summary for a binary or single-outcome category.
// For single-outcome categories Failure is always 0 and Success equals Count.
type PlayerStats struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Success  int     `json:"success"`
	Failure  int     `json:"failure"`
	Ratio    float64 `json:"ratio"` // success / (success + failure) as a percentage, 2 decimals
}

// ShotStats is one player's shot summary.
type ShotStats struct {
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	Goal         int    `json:"goal"`
	AttemptSaved int    `json:"attempt_saved"`
	Post         int    `json:"post"`
	Miss         int    `json:"miss"`
}

// OnTarget is goals plus saved attempts.
func (s ShotStats) OnTarget() int { return s.Goal + s.AttemptSaved }

// OffTarget is shots off the post plus misses.
func (s ShotStats) OffTarget() int { return s.Post + s.Miss }

// Total is every shot.
func (s ShotStats) Total() int { return s.OnTarget() + s.OffTarget() }

// Ratio returns 100*num/den rounded to 2 decimals, or 0 when den is 0.
func Ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*10000) / 100
}

// Players returns the player ids summaries are computed for: every player seen
// in events, or only those who recorded an event for teamID when it is set.
func Players(events []model.Event, teamID *int) []int {
	if teamID == nil {
		return model.ObservedPlayers(events)
	}
	return model.TeamPlayers(events, *teamID)
}

// groupByPlayer buckets table rows by player id.
func groupByPlayer(t extract.Table) map[int][]extract.Row {
	out := make(map[int][]extract.Row)
	for _, r := range t.Rows {
		out[r.PlayerID] = append(out[r.PlayerID], r)
	}
	return out
}

func displayName(roster *model.Roster, id int) string {
	if roster == nil || !roster.HasPlayerNames() {
		return ""
	}
	p, _ := roster.Player(id)
	return p.DisplayName()
}

// Outcomes summarises a binary-outcome table over players, one row per id in
// players even when the player has no rows. Rows whose outcome is undefined
// are not counted, so Count is always Success + Failure. Rows are ranked by
// ratio desc, then successes desc, then failures asc, then player id asc.
func Outcomes(t extract.Table, players []int, roster *model.Roster) []PlayerStats {
	byPlayer := groupByPlayer(t)
	out := make([]PlayerStats, 0, len(players))
	for _, id := range players {
		s := PlayerStats{PlayerID: id, Name: displayName(roster, id)}
		for _, r := range byPlayer[id] {
			switch r.Outcome {
			case model.OutcomeSuccess:
				s.Success++
			case model.OutcomeFailure:
				s.Failure++
			}
		}
		s.Count = s.Success + s.Failure
		s.Ratio = Ratio(s.Success, s.Success+s.Failure)
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		if a.Success != b.Success {
			return a.Success > b.Success
		}
		if a.Failure != b.Failure {
			return a.Failure < b.Failure
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}

// SingleOutcome summarises a category where every event counts as a success
// (corners taken, recoveries, interceptions). Rows are ranked by successes
// desc, then player id asc. Ratio is 100 for players with events.
func SingleOutcome(t extract.Table, players []int, roster *model.Roster) []PlayerStats {
	byPlayer := groupByPlayer(t)
	out := make([]PlayerStats, 0, len(players))
	for _, id := range players {
		n := len(byPlayer[id])
		out = append(out, PlayerStats{
			PlayerID: id,
			Name:     displayName(roster, id),
			Count:    n,
			Success:  n,
			Ratio:    Ratio(n, n),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Success != out[j].Success {
			return out[i].Success > out[j].Success
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// Shots summarises a shots table. Rows are ranked lexicographically desc over
// (goal, attempt saved, post, miss), then player id asc.
func Shots(t extract.Table, players []int, roster *model.Roster) []ShotStats {
	byPlayer := groupByPlayer(t)
	out := make([]ShotStats, 0, len(players))
	for _, id := range players {
		s := ShotStats{PlayerID: id, Name: displayName(roster, id)}
		for _, r := range byPlayer[id] {
			switch r.TypeID {
			case model.EventGoal:
				s.Goal++
			case model.EventAttemptSaved:
				s.AttemptSaved++
			case model.EventPost:
				s.Post++
			case model.EventMiss:
				s.Miss++
			}
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for _, k := range [][2]int{
			{a.Goal, b.Goal},
			{a.AttemptSaved, b.AttemptSaved},
			{a.Post, b.Post},
			{a.Miss, b.Miss},
		} {
			if k[0] != k[1] {
				return k[0] > k[1]
			}
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}

// Summary is the result of Summarise: exactly one of Players or Shots is set,
// depending on the category kind.
type Summary struct {
	Category extract.Category
	Players  []PlayerStats
	Shots    []ShotStats
}

// Summarise dispatches on the table's category kind.
func Summarise(t extract.Table, players []int, roster *model.Roster) (Summary, error) {
	s := Summary{Category: t.Category}
	switch t.Category.Kind {
	case extract.Binary:
		s.Players = Outcomes(t, players, roster)
	case extract.Single:
		s.Players = SingleOutcome(t, players, roster)
	case extract.Shots:
		s.Shots = Shots(t, players, roster)
	default:
		return Summary{}, fmt.Errorf("summarise %s: %s categories are not aggregated", t.Category.Name, t.Category.Kind)
	}
	return s, nil
}
