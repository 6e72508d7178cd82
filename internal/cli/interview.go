package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"intervue/internal/session"
	"intervue/internal/ui/interview"
	"intervue/pkg/scoring"
)

// stdinReader allows tests to feed interview and prompt input.
var stdinReader io.Reader = os.Stdin

// runInterview builds the handler for the interview command.
func runInterview(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .intervue.yml)")
		uiMode := flags.String("ui", "", "UI mode: auto|live|plain (default: config)")
		resumeFile := flags.String("resume", "", "Resume file to extract candidate details from")
		name := flags.String("name", "", "Candidate name")
		email := flags.String("email", "", "Candidate email")
		phone := flags.String("phone", "", "Candidate phone")
		resumeSession := flags.Bool("resume-session", false, "Resume an unfinished interview without asking")
		startNew := flags.Bool("new", false, "Start a new interview without asking")
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
		if *resumeSession && *startNew {
			fmt.Fprintln(stderr, "--resume-session and --new are mutually exclusive")
			return ExitUsage
		}
		start := interview.StartAsk
		switch {
		case *resumeSession:
			start = interview.StartResume
		case *startNew:
			start = interview.StartNew
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

		a, err := openApp(ctx, cfg, appOptions{console: !decision.useLive, journal: true, stderr: stderr})
		if err != nil {
			fmt.Fprintf(stderr, "Startup failed: %v\n", err)
			return ExitError
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.log.Warn().Err(err).Msg("shutdown")
			}
		}()

		reader := bufio.NewReader(stdinReader)
		candidate := scoring.Candidate{
			Name:  strings.TrimSpace(*name),
			Email: strings.TrimSpace(*email),
			Phone: strings.TrimSpace(*phone),
		}
		if *resumeFile != "" {
			extracted, err := uploadResume(ctx, a.client, *resumeFile)
			if err != nil {
				fmt.Fprintf(stderr, "Resume upload failed: %v\n", err)
				return ExitError
			}
			candidate = candidate.Merge(extracted)
		}
		if start != interview.StartResume {
			candidate, err = completeCandidate(reader, stdout, candidate)
			if err != nil {
				fmt.Fprintf(stderr, "Candidate details incomplete: %v\n", err)
				return ExitError
			}
			if err := candidate.Validate(); err != nil {
				fmt.Fprintf(stderr, "%v\n", err)
				return ExitUsage
			}
		}

		exec := session.NewExecutor(ctx, a.store, session.ExecutorOptions{Recognizer: a.recognizer(), Log: a.log})
		var final session.Machine
		if decision.useLive {
			final, err = runLiveInterview(ctx, exec, interview.Options{Candidate: candidate, Start: start, NoColor: cfg.UI.NoColor}, stdout)
		} else {
			final, err = runPlainInterview(ctx, exec, plainOptions{Candidate: candidate, Start: start}, reader, stdout)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Interview failed: %v\n", err)
			return ExitError
		}
		if final.State() != session.Complete {
			if final.InterviewID() != 0 {
				fmt.Fprintf(stdout, "Interview %d paused; run \"intervue interview --resume-session\" to continue.\n", final.InterviewID())
			}
			return ExitOK
		}
		if decision.useLive {
			printCompletion(stdout, final)
		}
		return ExitOK
	}
}

// completeCandidate prompts for identity fields that are still empty.
func completeCandidate(reader *bufio.Reader, out io.Writer, c scoring.Candidate) (scoring.Candidate, error) {
	for _, field := range c.MissingFields() {
		value, err := promptRequired(reader, out, strings.ToUpper(field[:1])+field[1:])
		if err != nil {
			return c, err
		}
		switch field {
		case "name":
			c.Name = value
		case "email":
			c.Email = value
		case "phone":
			c.Phone = value
		}
	}
	return c, nil
}

func runLiveInterview(ctx context.Context, exec *session.Executor, opts interview.Options, stdout io.Writer) (session.Machine, error) {
	program := tea.NewProgram(interview.NewModel(exec, opts), tea.WithOutput(stdout), tea.WithAltScreen(), tea.WithContext(ctx))
	result, err := program.Run()
	exec.Close()
	if err != nil && ctx.Err() != nil {
		err = nil
	}
	if model, ok := result.(interview.Model); ok {
		if err == nil {
			err = model.Err()
		}
		return model.Machine(), err
	}
	return session.Machine{}, err
}

func printCompletion(out io.Writer, m session.Machine) {
	fmt.Fprintf(out, "Interview complete. Final score: %s/10 (%s)\n",
		scoring.FormatScore(m.FinalScore()), scoring.ScoreLabel(m.FinalScore()))
	if m.Summary() != "" {
		fmt.Fprintf(out, "Summary: %s\n", m.Summary())
	}
}
