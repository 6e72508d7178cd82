package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// cliTimeout bounds end-to-end command runs against the fake service.
const cliTimeout = 15 * time.Second

// writeConfig writes a plain-mode config pointing at baseURL and returns its path.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	content := strings.Join([]string{
		"service:",
		"  base_url: " + baseURL,
		"  timeout: 5s",
		"journal:",
		"  path: " + filepath.Join(dir, "journal.duckdb"),
		"ui:",
		"  mode: plain",
		"  no_color: true",
		"log:",
		"  level: warn",
		"",
	}, "\n")
	path := filepath.Join(dir, ".intervue.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// withStdin replaces interview input for one test.
func withStdin(t *testing.T, input string) {
	t.Helper()
	original := stdinReader
	stdinReader = strings.NewReader(input)
	t.Cleanup(func() { stdinReader = original })
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}
