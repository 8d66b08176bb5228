package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trivia-quiz/internal/config"
)

func TestCatalogCmdListsEmbeddedCatalogs(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCatalogCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out.String(), "classic") {
		t.Fatalf("expected classic catalog, got %q", out.String())
	}
}

func TestCatalogCmdPrintsQuestions(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCatalogCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"classic"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("catalog classic: %v", err)
	}
	text := out.String()
	for _, want := range []string{"max score", "Difficulty: EASY", "Status: Not answered"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestCatalogCmdUnknownCatalog(t *testing.T) {
	cmd := NewCatalogCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown catalog")
	}
}

func TestSetupLoggingWritesToFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	cfg := config.Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"
	cfg.Log.File = filepath.Join(t.TempDir(), "trivia.log")

	closeLog, err := setupLogging(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("setup logging: %v", err)
	}
	slog.Debug("hello", "k", "v")
	closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected json log line, got %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestRunPlayPlainQuitsOnInput(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("q\n")
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if err := runPlay(t.Context(), path, playOptions{ui: "plain", seed: 3}, in, &out); err != nil {
		t.Fatalf("play: %v", err)
	}
}
