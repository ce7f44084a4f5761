package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pable/go-opta-metrics/internal/extract"
	"github.com/pable/go-opta-metrics/internal/report"
	"github.com/pable/go-opta-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("optametrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()
	return shellLoop(db, os.Stdin)
}

func shellLoop(db *storage.DB, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Print("optametrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "categories":
			shellCategories()
		case "list":
			err = shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <match-id>")
				continue
			}
			err = shellShow(db, args[0])
		case "events", "stats":
			err = shellQuery(db, name, args)
		case "sql":
			err = shellSQL(db, strings.TrimSpace(strings.TrimPrefix(line, name)))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <match-id>", "show a match and its event types"},
		{"events <match-id> -c <category> [...]", "category rows (--player --team --period --split)"},
		{"stats <match-id> -c <category> [--team id]", "per-player summary of a category"},
		{"categories", "list category names"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-46s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellCategories() {
	for _, name := range extract.Names() {
		cat, _ := extract.Lookup(name)
		fmt.Print("  ")
		cCmd.Printf("%-16s", name)
		cMuted.Println(cat.Kind)
	}
}

func shellList(db *storage.DB) error {
	matches, err := db.ListMatches()
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return nil
	}
	report.PrintMatchList(os.Stdout, matches)
	return nil
}

func shellShow(db *storage.DB, arg string) error {
	matchID, err := parseMatchID(arg)
	if err != nil {
		return err
	}
	rec, err := db.GetMatch(matchID)
	if err != nil {
		return err
	}
	counts, err := db.EventTypeCounts([]int{matchID}, 10)
	if err != nil {
		return err
	}
	report.PrintMatchSummary(os.Stdout, rec.Match)
	cHeader.Println("--- Top event types ---")
	report.PrintTypeCounts(os.Stdout, counts)
	return nil
}

// shellQuery parses events/stats arguments with a fresh flag set so that
// values never leak between lines.
func shellQuery(db *storage.DB, name string, args []string) error {
	var sel selection
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sel.bind(fs, name == "events")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s <match-id> -c <category>", name)
	}
	matchID, err := parseMatchID(fs.Arg(0))
	if err != nil {
		return err
	}

	if name == "stats" {
		s, err := summarise(db, matchID, &sel, fs)
		if err != nil {
			return err
		}
		report.PrintSummary(os.Stdout, s)
		return nil
	}
	t, _, _, err := extractTable(db, matchID, &sel, fs)
	if err != nil {
		return err
	}
	report.PrintTable(os.Stdout, t)
	return nil
}

func shellSQL(db *storage.DB, query string) error {
	if query == "" {
		return fmt.Errorf("usage: sql <query>")
	}
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintRaw(os.Stdout, cols, rows)
	cMuted.Printf("(%d rows)\n", len(rows))
	return nil
}
