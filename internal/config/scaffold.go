package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `service:
  base_url: "http://localhost:5000"
  timeout: 30s

notify:
  backend: none        # none | redis | amqp
  redis_url: ""
  amqp_url: ""
  channel: "intervue.candidates"

speech:
  command: ""          # program writing {"text": "...", "final": true} lines
  args: []
  lang: "en-US"

journal:
  path: ".intervue/journal.duckdb"
  disabled: false

ui:
  mode: auto           # auto | live | plain
  no_color: false

log:
  level: info
  file: ""
`

// Scaffold writes a default config into dir. It refuses to overwrite.
func Scaffold(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
