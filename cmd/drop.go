package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-opta-metrics/internal/storage"
)

var (
	dropForce bool
	dropMatch int
)

// dropCmd deletes one stored match or the whole database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete a stored match or the whole database",
	Long: `Without --match, permanently delete the SQLite database; all stored matches
are lost and feeds must be parsed again. With --match, delete only that match.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().IntVar(&dropMatch, "match", 0, "delete only this match id")
}

func runDrop(cmd *cobra.Command, args []string) error {
	target := cfg.DBPath
	if cmd.Flags().Changed("match") {
		target = fmt.Sprintf("match %d in %s", dropMatch, cfg.DBPath)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if cmd.Flags().Changed("match") {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.DeleteMatch(dropMatch); err != nil {
			if errors.Is(err, storage.ErrMatchNotFound) {
				fmt.Fprintf(os.Stdout, "Match %d is not stored, nothing to drop.\n", dropMatch)
				return nil
			}
			return fmt.Errorf("delete match: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Deleted %s\n", target)
		return nil
	}

	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(cfg.DBPath + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}
