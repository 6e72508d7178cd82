package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestResolveUIMode verifies ui mode decision logic.
func TestResolveUIMode(t *testing.T) {
	cases := []struct {
		name       string
		mode       string
		outTTY     bool
		inTTY      bool
		expectLive bool
		wantWarn   bool
		wantErr    bool
	}{
		{name: "auto tty", mode: "auto", outTTY: true, inTTY: true, expectLive: true},
		{name: "empty means auto", mode: "", outTTY: true, inTTY: true, expectLive: true},
		{name: "auto piped stdin", mode: "auto", outTTY: true, inTTY: false, expectLive: false},
		{name: "auto non-tty", mode: "auto", expectLive: false},
		{name: "plain", mode: "plain", outTTY: true, inTTY: true, expectLive: false},
		{name: "live tty", mode: "LIVE", outTTY: true, inTTY: true, expectLive: true},
		{name: "live non-tty warning", mode: "live", outTTY: false, inTTY: true, expectLive: false, wantWarn: true},
		{name: "invalid mode", mode: "nope", outTTY: true, inTTY: true, wantErr: true},
	}

	original := isTerminal
	t.Cleanup(func() { isTerminal = original })

	stdin := strings.NewReader("")
	stdout := &bytes.Buffer{}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			isTerminal = func(stream any) bool {
				if stream == any(stdout) {
					return tc.outTTY
				}
				return tc.inTTY
			}
			decision, err := resolveUIMode(tc.mode, stdin, stdout)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if decision.useLive != tc.expectLive {
				t.Fatalf("expected useLive=%v, got %v", tc.expectLive, decision.useLive)
			}
			if tc.wantWarn && decision.warning == "" {
				t.Fatalf("expected warning")
			}
			if !tc.wantWarn && decision.warning != "" {
				t.Fatalf("did not expect warning")
			}
		})
	}
}

// TestDefaultIsTerminalRejectsBuffers verifies non-file streams are never terminals.
func TestDefaultIsTerminalRejectsBuffers(t *testing.T) {
	if defaultIsTerminal(&bytes.Buffer{}) || defaultIsTerminal(nil) {
		t.Fatalf("expected buffers and nil to be non-terminals")
	}
}
