package cli

import (
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command is one intervue subcommand.
type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		if len(args) > 1 {
			if cmd := findCommand(args[1]); cmd != nil {
				printCommandUsage(cmd, stdout)
				return ExitOK
			}
		}
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  intervue <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"intervue <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("interview", "Run a timed six-question interview", []string{
		"intervue interview [--resume <file>] [--name <name>] [--email <email>] [--phone <phone>]",
		"intervue interview --resume-session | --new",
	}, runInterview),
	command("candidates", "List candidates and their scores", []string{
		"intervue candidates [--ui auto|live|plain]",
	}, runCandidates),
	command("candidate", "Show one candidate's interview record", []string{
		"intervue candidate <id>",
	}, runCandidate),
	command("upload", "Upload a resume and show the extracted details", []string{
		"intervue upload <file>",
	}, runUpload),
	command("history", "List interviews journaled on this machine", []string{
		"intervue history [--limit <n>]",
	}, runHistory),
	command("init", "Scaffold .intervue.yml", []string{
		"intervue init [--dir <path>]",
	}, runInit),
	command("validate", "Validate .intervue.yml", []string{
		"intervue validate [--config <path>]",
	}, runValidate),
}
