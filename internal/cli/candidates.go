package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"intervue/internal/ui/directory"
	"intervue/pkg/scoring"
)

// runCandidates builds the handler for the candidates command.
func runCandidates(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .intervue.yml)")
		uiMode := flags.String("ui", "", "UI mode: auto|live|plain (default: config)")
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
		mode := cfg.UI.Mode
		if strings.TrimSpace(*uiMode) != "" {
			mode = *uiMode
		}
		decision, err := resolveUIMode(mode, stdinReader, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "Invalid UI mode: %v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		a, err := openApp(ctx, cfg, appOptions{console: !decision.useLive, stderr: stderr})
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}
		defer a.Close()

		if !decision.useLive {
			rows, err := a.store.Candidates(ctx)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to list candidates: %v\n", err)
				return ExitError
			}
			printCandidates(stdout, rows)
			return ExitOK
		}

		events, err := a.notifier.Subscribe(ctx)
		if err != nil {
			a.log.Warn().Err(err).Msg("live updates unavailable")
			events = nil
		}
		model := directory.NewModel(ctx, a.store, events, directory.Options{NoColor: cfg.UI.NoColor})
		program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			fmt.Fprintf(stderr, "Directory failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}

// runCandidate builds the handler for the candidate command.
func runCandidate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .intervue.yml)")
		if err := flags.Parse(args); err != nil {
			fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "expected exactly one candidate id")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		id, err := strconv.Atoi(flags.Arg(0))
		if err != nil || id <= 0 {
			fmt.Fprintf(stderr, "invalid candidate id %q\n", flags.Arg(0))
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		ctx := context.Background()
		a, err := openApp(ctx, cfg, appOptions{console: true, stderr: stderr})
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}
		defer a.Close()

		detail, err := a.store.CandidateDetail(ctx, id)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load candidate %d: %v\n", id, err)
			return ExitError
		}
		fmt.Fprint(stdout, directory.RenderDetail(detail))
		return ExitOK
	}
}

func printCandidates(out io.Writer, rows []scoring.CandidateSummary) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No candidates yet.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSCORE\tRATING\tSTATUS")
	for _, c := range rows {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s/10\t%s\t%s\n",
			c.ID, c.Name, c.Email, scoring.FormatScore(c.FinalScore), scoring.ScoreLabel(c.FinalScore), c.Status)
	}
	_ = w.Flush()
}
