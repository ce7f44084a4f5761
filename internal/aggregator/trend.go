package aggregator

import (
	"github.com/pable/go-opta-metrics/internal/model"
)

// MatchLine is one player's summary of a category in one match. Stats is set
// for binary and single-outcome categories, Shots for shots.
type MatchLine struct {
	Match model.Match
	Stats PlayerStats
	Shots ShotStats
}

// Totals sums a player's lines across matches. The ratio is recomputed from
// the summed outcomes rather than averaged.
func Totals(lines []MatchLine) (PlayerStats, ShotStats) {
	var (
		ps PlayerStats
		ss ShotStats
	)
	for i, l := range lines {
		if i == 0 {
			ps.PlayerID, ps.Name = l.Stats.PlayerID, l.Stats.Name
			ss.PlayerID, ss.Name = l.Shots.PlayerID, l.Shots.Name
		}
		ps.Count += l.Stats.Count
		ps.Success += l.Stats.Success
		ps.Failure += l.Stats.Failure
		ss.Goal += l.Shots.Goal
		ss.AttemptSaved += l.Shots.AttemptSaved
		ss.Post += l.Shots.Post
		ss.Miss += l.Shots.Miss
	}
	ps.Ratio = Ratio(ps.Success, ps.Success+ps.Failure)
	return ps, ss
}
