package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/config"
)

func TestNewJSONLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&config.Config{Env: config.EnvProd, LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Debug().Msg("hidden")
	logger.Info().Uint("task_id", 3).Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug to be filtered, got %q", out)
	}
	if !strings.Contains(out, `"task_id":3`) || !strings.Contains(out, `"timestamp"`) {
		t.Fatalf("expected json fields, got %q", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&config.Config{Env: config.EnvProd, LogLevel: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
}
