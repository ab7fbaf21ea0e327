package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got, err := Load("")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if want := Default(); !cmp.Equal(got, want) {
		t.Errorf("got != expected, diff: %v\n", cmp.Diff(got, want))
	}
}

func TestDefault(t *testing.T) {
	expected := Settings{
		Server: ServerSettings{Addr: ":8080"},
		Client: ClientSettings{Server: "localhost:8080"},
		Editor: EditorSettings{Debounce: 500 * time.Millisecond, History: 100},
	}

	if got := Default(); !cmp.Equal(got, expected) {
		t.Errorf("got != expected, diff: %v\n", cmp.Diff(got, expected))
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		description string
		content     string
		env         map[string]string
		expected    func(s *Settings)
	}{
		{description: "file values",
			content: "server:\n  addr: \":9000\"\neditor:\n  debounce: 250ms\n  marks: true\n",
			expected: func(s *Settings) {
				s.Server.Addr = ":9000"
				s.Editor.Debounce = 250 * time.Millisecond
				s.Editor.Marks = true
			}},

		{description: "partial file keeps defaults",
			content: "client:\n  secure: true\n",
			expected: func(s *Settings) {
				s.Client.Secure = true
			}},

		{description: "environment wins over the file",
			content: "editor:\n  history: 10\n",
			env:     map[string]string{"CHATPAD_EDITOR_HISTORY": "20", "CHATPAD_LOG_DEBUG": "true"},
			expected: func(s *Settings) {
				s.Editor.History = 20
				s.Log.Debug = true
			}},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, "chatpad.yaml", tc.content)

			got, err := Load(path)
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			want := Default()
			tc.expected(&want)
			if !cmp.Equal(got, want) {
				t.Errorf("(%s) got != expected, diff: %v\n", tc.description, cmp.Diff(got, want))
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}
