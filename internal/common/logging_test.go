package common

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestNewLogger_ReturnsNonNil(t *testing.T) {
	if NewLogger("info") == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger("error")
	logger.Info().Str("provider", "petstore").Msg("test message")
	logger.Warn().Int("tools", 3).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
}

func TestNewLoggerFromConfig_EmptyConfig(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Debug().Msg("below default level")
}

func TestNewLoggerWithOutput_WritesLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("tool", "petstore_getPet").Msg("tool registered")

	out := buf.String()
	if out == "" {
		t.Fatal("expected output to provided writer, got empty string")
	}
	if !strings.Contains(out, "tool registered") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	if buf.Len() > 0 {
		t.Errorf("silent logger wrote %d bytes: %s", buf.Len(), buf.String())
	}
}

// stdout is the MCP channel in stdio mode.
func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLogger("info")
	logger.Info().Str("tool", "test").Msg("this must not go to stdout")
	logger.Error().Msg("neither should this")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLogger("info")
	correlated := logger.WithCorrelationId("req-123")
	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
	correlated.Info().Str("tool", "petstore_listPets").Msg("handler start")
}

func TestLoadVersionFile(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := t.TempDir() + "/.version"
	content := "# generated\nversion: 1.2.3\nbuild: 2026-10-01\ncommit: abc1234\nnonsense\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	loadVersionFile(path)

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}
	if Build != "2026-10-01" {
		t.Errorf("expected build 2026-10-01, got %s", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("expected commit abc1234, got %s", GitCommit)
	}
	if got := GetFullVersion(); got != "1.2.3 (build: 2026-10-01, commit: abc1234)" {
		t.Errorf("unexpected full version %q", got)
	}
}

func TestLoadVersionFile_LdflagsWin(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })

	Version = "9.9.9"
	path := t.TempDir() + "/.version"
	if err := os.WriteFile(path, []byte("version: 1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	loadVersionFile(path)

	if Version != "9.9.9" {
		t.Errorf("expected ldflags version to be kept, got %s", Version)
	}
}
