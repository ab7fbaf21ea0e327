package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"github.com/burntcarrot/chatpad/config"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		description string
		flags       Flags
		set         map[string]bool
		expected    config.ClientSettings
		expectedDbg bool
	}{
		{description: "nothing set",
			flags:    Flags{Server: "flag:1", Secure: true},
			expected: config.ClientSettings{Server: "localhost:8080"}},

		{description: "explicit flags win",
			flags:       Flags{Server: "flag:1", Secure: true, Login: true, Debug: true},
			set:         map[string]bool{"server": true, "secure": true, "login": true, "debug": true},
			expected:    config.ClientSettings{Server: "flag:1", Secure: true, Login: true},
			expectedDbg: true},
	}

	for _, tc := range tests {
		s := config.Default()
		applyFlags(&s, tc.flags, tc.set)
		if !cmp.Equal(s.Client, tc.expected) {
			t.Errorf("(%s) got != expected, diff: %v\n", tc.description, cmp.Diff(s.Client, tc.expected))
		}
		if s.Log.Debug != tc.expectedDbg {
			t.Errorf("(%s) got debug %v, expected %v", tc.description, s.Log.Debug, tc.expectedDbg)
		}
	}
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		description string
		settings    config.ClientSettings
		expected    string
	}{
		{description: "plain", settings: config.ClientSettings{Server: "host:1"}, expected: "ws://host:1/"},
		{description: "secure", settings: config.ClientSettings{Server: "host:1", Secure: true}, expected: "wss://host:1/"},
	}

	for _, tc := range tests {
		u := serverURL(tc.settings)
		if got := u.String(); got != tc.expected {
			t.Errorf("(%s) got %q, expected %q", tc.description, got, tc.expected)
		}
	}
}

func TestReadDraft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.txt")
	if err := os.WriteFile(path, []byte("> saved"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := readDraft(path)
	if err != nil || got != "> saved" {
		t.Errorf("got %q, %v", got, err)
	}

	if got, err := readDraft(""); err != nil || got != "" {
		t.Errorf("empty path: got %q, %v", got, err)
	}

	if _, err := readDraft(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAddHooks(t *testing.T) {
	var logBuf, debugBuf bytes.Buffer
	logger := discardLogger()
	logger.SetLevel(logrus.DebugLevel)
	addHooks(logger, &logBuf, &debugBuf)

	logger.Warn("warned")
	logger.Debug("debugged")

	if !strings.Contains(logBuf.String(), "warned") || strings.Contains(logBuf.String(), "debugged") {
		t.Errorf("log file got %q", logBuf.String())
	}
	if !strings.Contains(debugBuf.String(), "debugged") || strings.Contains(debugBuf.String(), "warned") {
		t.Errorf("debug log file got %q", debugBuf.String())
	}
}
