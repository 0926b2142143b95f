package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-fives-metrics/internal/roster"
	"github.com/pable/go-fives-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
	cTeam1    = color.New(color.FgGreen, color.Bold)
	cTeam2    = color.New(color.FgMagenta, color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("fives shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("fives")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if name == "exit" || name == "quit" {
			return nil
		}
		if err := shellDispatch(cmd.Context(), db, name, rest); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellDispatch(ctx context.Context, db *storage.DB, name, rest string) error {
	switch name {
	case "help":
		shellHelp()
	case "list":
		return printMatches(db)
	case "players":
		return printPlayers(db, intArg(rest, 1))
	case "player":
		names := roster.SplitNames(rest)
		if len(names) == 0 {
			return fmt.Errorf("usage: player <name>[, <name>...]")
		}
		return printPlayer(db, names)
	case "duos":
		return printDuos(db, intArg(rest, 1), 25, false)
	case "predict":
		strict := strings.HasSuffix(rest, " --strict")
		rest = strings.TrimSuffix(rest, " --strict")
		left, right, ok := strings.Cut(rest, " vs ")
		if !ok {
			return fmt.Errorf("usage: predict <a, b, ...> vs <c, d, ...> [--strict]")
		}
		return predictLineup(ctx, db, roster.SplitNames(left), roster.SplitNames(right), strict, true)
	case "history":
		return printHistory(db, intArg(rest, 20))
	case "sql":
		if rest == "" {
			return fmt.Errorf("usage: sql <query>")
		}
		return printQuery(db, rest)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"players [min-matches]", "player win rates and goal averages"},
		{"player <name>[, <name>...]", "record, partners and recent matches"},
		{"duos [min-matches]", "teammate pair records"},
		{"predict <a, b> vs <c, d> [--strict]", "predict a line-up and save it"},
		{"history [limit]", "stored predictions"},
		{"sql <query>", "raw SQL against the database"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// intArg parses s as an int, falling back to def when blank or invalid.
func intArg(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}
