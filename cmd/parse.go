package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/parser"
	"github.com/pable/go-opta-metrics/internal/report"
	"github.com/pable/go-opta-metrics/internal/storage"
	"github.com/pable/go-opta-metrics/pkg/logger"
)

var parseForce bool

var parseCmd = &cobra.Command{
	Use:   "parse <f24.xml>",
	Short: "Parse an F24 event feed and store the match",
	Long: `Parse an Opta F24 event feed and store its match, teams, players, events and
qualifiers. With --squads (or squads_path in the config) player names from an
SRML squad feed are merged into the roster. Re-parsing a file that is already
stored is a no-op unless --force is given; storing a match id again replaces
the previous copy.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("squads", "", "SRML squad feed to merge player names from")
	parseCmd.Flags().BoolVarP(&parseForce, "force", "f", false, "store even if this exact file was stored before")
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Named("parse")
	feedPath := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Parsing %s...\n", feedPath)
	feed, stats, err := parser.ParseEventsFile(feedPath)
	if err != nil {
		return fmt.Errorf("parse feed: %w", err)
	}
	mgr.RecordParse(stats.Events, stats.Qualifiers, stats.Fallbacks)
	log.Debug(ctx, "feed decoded",
		logger.Int("events", stats.Events),
		logger.Int("qualifiers", stats.Qualifiers),
		logger.Int("fallbacks", stats.Fallbacks))

	if !parseForce && cfg.SquadsPath == "" {
		exists, err := db.MatchExists(feed.Hash)
		if err != nil {
			return fmt.Errorf("check match: %w", err)
		}
		if exists {
			fmt.Fprintf(os.Stdout, "Feed %s already stored, showing cached match %d.\n", feed.Hash[:12], feed.Match.MatchID)
			return showMatch(ctx, db, feed.Match.MatchID)
		}
	}

	roster, err := buildRoster(ctx, feed)
	if err != nil {
		return err
	}

	var ingestID string
	err = timed("insert_match", func() error {
		ingestID, err = db.InsertMatch(feed, roster)
		return err
	})
	if err != nil {
		return fmt.Errorf("store match: %w", err)
	}
	mgr.RecordMatchStored()
	log.Info(ctx, "match stored",
		logger.Int("match_id", feed.Match.MatchID),
		logger.String("ingest_id", ingestID),
		logger.Int("events", len(feed.Events)),
		logger.Int("players", len(roster.Players())))

	if jsonOutput() {
		return report.WriteJSON(os.Stdout, map[string]any{
			"match_id":     feed.Match.MatchID,
			"ingest_id":    ingestID,
			"hash":         feed.Hash,
			"events":       stats.Events,
			"qualifiers":   stats.Qualifiers,
			"fallbacks":    stats.Fallbacks,
			"players":      len(roster.Players()),
			"squad_merged": roster.HasPlayerNames(),
		})
	}
	report.PrintMatchSummary(os.Stdout, feed.Match)
	fmt.Fprintf(os.Stdout, "Stored match %d: %d events, %d qualifiers, %d players (ingest %s)\n",
		feed.Match.MatchID, stats.Events, stats.Qualifiers, len(roster.Players()), ingestID)
	if stats.Fallbacks > 0 {
		fmt.Fprintf(os.Stdout, "%d attribute(s) were missing or unparsable and stored as undefined.\n", stats.Fallbacks)
	}
	return nil
}

// buildRoster derives teams and players from the feed and merges the squad
// feed when one is configured.
func buildRoster(ctx context.Context, feed *model.Feed) (*model.Roster, error) {
	roster := model.NewRoster(feed.Match, feed.Events)
	if cfg.SquadsPath == "" {
		return roster, nil
	}
	squad, err := parser.ParseSquadsFile(cfg.SquadsPath)
	if err != nil {
		return nil, fmt.Errorf("parse squads: %w", err)
	}
	logger.Named("parse").Debug(ctx, "squad feed decoded",
		logger.String("file", cfg.SquadsPath),
		logger.Int("players", len(squad)))
	return roster.WithSquad(squad), nil
}

// showMatch prints a stored match header and its most frequent event types.
func showMatch(ctx context.Context, db *storage.DB, matchID int) error {
	rec, err := db.GetMatch(matchID)
	if err != nil {
		return fmt.Errorf("get match: %w", err)
	}
	counts, err := db.EventTypeCounts([]int{matchID}, 0)
	if err != nil {
		return fmt.Errorf("count event types: %w", err)
	}
	logger.Named("show").Debug(ctx, "match found", logger.String("ingest_id", rec.IngestID))

	if jsonOutput() {
		types := make([]map[string]any, 0, len(counts))
		for _, c := range counts {
			types = append(types, map[string]any{
				"type_id": c.TypeID, "type_name": model.EventTypeName(c.TypeID), "count": c.Count,
			})
		}
		return report.WriteJSON(os.Stdout, map[string]any{
			"match_id":     rec.Match.MatchID,
			"competition":  rec.Match.CompetitionName,
			"season":       rec.Match.SeasonName,
			"matchday":     rec.Match.Matchday,
			"game_date":    rec.Match.GameDate,
			"home":         rec.Match.HomeTeamName,
			"home_score":   rec.Match.HomeScore,
			"away":         rec.Match.AwayTeamName,
			"away_score":   rec.Match.AwayScore,
			"events":       rec.Events,
			"squad_merged": rec.SquadMerged,
			"ingest_id":    rec.IngestID,
			"event_types":  types,
		})
	}

	report.PrintMatchSummary(os.Stdout, rec.Match)
	fmt.Fprintf(os.Stdout, "Events: %d  |  Squad merged: %v  |  Ingest: %s  |  Stored: %s\n\n",
		rec.Events, rec.SquadMerged, rec.IngestID, rec.IngestedAt.Format("2006-01-02 15:04"))
	report.PrintTypeCounts(os.Stdout, counts)
	return nil
}
