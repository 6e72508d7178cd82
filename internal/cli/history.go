package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"intervue/internal/journal"
	"intervue/pkg/scoring"
)

// runHistory builds the handler for the history command.
func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .intervue.yml)")
		limit := flags.Int("limit", 20, "Maximum sessions to list")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if cfg.Journal.Disabled {
			fmt.Fprintln(stderr, "The journal is disabled in config.")
			return ExitError
		}
		ctx := context.Background()
		j, err := openJournal(ctx, cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open journal: %v\n", err)
			return ExitError
		}
		defer j.Close()

		sessions, err := j.List(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read journal: %v\n", err)
			return ExitError
		}
		printHistory(stdout, sessions)
		return ExitOK
	}
}

func printHistory(out io.Writer, sessions []journal.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No interviews recorded yet.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tINTERVIEW\tCANDIDATE\tANSWERS\tSCORE")
	for _, s := range sessions {
		score := "in progress"
		if s.FinalScore != nil {
			score = scoring.FormatScore(*s.FinalScore) + "/10 (" + scoring.ScoreLabel(*s.FinalScore) + ")"
		}
		who := s.Name
		if s.Resumed {
			who += " (resumed)"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%d/%d\t%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"), s.InterviewID, who, s.Answers, scoring.TotalQuestions, score)
	}
	_ = w.Flush()
}
