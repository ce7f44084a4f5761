package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/model"
	"github.com/pable/go-opta-metrics/internal/storage"
	"github.com/pable/go-opta-metrics/pkg/logger"
)

// selection holds the flags shared by events, stats, export and the shell.
type selection struct {
	category string
	player   int
	team     int
	period   int
	split    string
}

func (s *selection) bind(fs *pflag.FlagSet, withSplit bool) {
	fs.StringVarP(&s.category, "category", "c", "", "event category (see 'optametrics events --help')")
	fs.IntVar(&s.player, "player", 0, "only events by this player id")
	fs.IntVar(&s.team, "team", 0, "only events by this team id")
	fs.IntVar(&s.period, "period", 0, "only events in this period (1, 2, ...)")
	if withSplit {
		fs.StringVar(&s.split, "split", "", "outcome split: successful, unsuccessful, on_target, off_target or a category label")
	}
}

// options converts the flags that were set on fs to extractor options.
func (s *selection) options(fs *pflag.FlagSet) []extract.Option {
	var opts []extract.Option
	if fs.Changed("player") {
		opts = append(opts, extract.ForPlayer(s.player))
	}
	if fs.Changed("team") {
		opts = append(opts, extract.ForTeam(s.team))
	}
	if fs.Changed("period") {
		opts = append(opts, extract.ForPeriod(s.period))
	}
	return opts
}

// teamFilter returns the team id when --team was set.
func (s *selection) teamFilter(fs *pflag.FlagSet) *int {
	if !fs.Changed("team") {
		return nil
	}
	id := s.team
	return &id
}

func parseMatchID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid match id %q: %w", arg, err)
	}
	return id, nil
}

// loadFeed reads a stored match back into memory.
func loadFeed(db *storage.DB, matchID int) (*model.Feed, *model.Roster, error) {
	var (
		feed   *model.Feed
		roster *model.Roster
	)
	err := timed("load_feed", func() error {
		var err error
		feed, roster, err = db.LoadFeed(matchID)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	logger.Named("cmd").Debug(context.Background(), "match loaded",
		logger.Int("match_id", matchID),
		logger.Int("events", len(feed.Events)),
		logger.Any("named", roster.HasPlayerNames()))
	return feed, roster, nil
}

// extractTable loads a match and runs one category through the extractor,
// applying the selection's filters and split.
func extractTable(db *storage.DB, matchID int, sel *selection, fs *pflag.FlagSet) (extract.Table, *model.Feed, *extract.Extractor, error) {
	if sel.category == "" {
		return extract.Table{}, nil, nil, fmt.Errorf("--category is required (one of %v)", extract.Names())
	}
	cat, err := extract.Lookup(sel.category)
	if err != nil {
		return extract.Table{}, nil, nil, err
	}
	feed, roster, err := loadFeed(db, matchID)
	if err != nil {
		return extract.Table{}, nil, nil, err
	}
	x := extract.New(feed.Events, roster)
	t, err := x.Extract(cat, sel.options(fs)...)
	if err != nil {
		return extract.Table{}, nil, nil, fmt.Errorf("extract %s: %w", cat.Name, err)
	}
	mgr.RecordExtraction(cat.Name, t.Len())
	if sel.split != "" {
		if t, err = t.Split(sel.split); err != nil {
			return extract.Table{}, nil, nil, err
		}
	}
	return t, feed, x, nil
}
