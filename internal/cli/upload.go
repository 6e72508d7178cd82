package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"intervue/pkg/scoring"
)

// runUpload builds the handler for the upload command.
func runUpload(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
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
			fmt.Fprintln(stderr, "expected exactly one resume file")
			printCommandUsage(cmd, stderr)
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

		candidate, err := uploadResume(ctx, a.client, flags.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Upload failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Name:  %s\nEmail: %s\nPhone: %s\n", orDash(candidate.Name), orDash(candidate.Email), orDash(candidate.Phone))
		if missing := candidate.MissingFields(); len(missing) > 0 {
			fmt.Fprintf(stdout, "Missing: %s\n", strings.Join(missing, ", "))
		}
		return ExitOK
	}
}

// uploadResume sends a PDF or DOCX resume to the intake service.
func uploadResume(ctx context.Context, intake scoring.Intake, path string) (scoring.Candidate, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx":
	default:
		return scoring.Candidate{}, fmt.Errorf("unsupported resume type %q (expected .pdf or .docx)", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return scoring.Candidate{}, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()
	return intake.UploadResume(ctx, filepath.Base(path), f)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
