package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func lastNonEmptyLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}

func TestLoggerIncludesStackAndService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "test-service", "info")
	log.Error().Stack().Err(errors.New("boom")).Msg("something failed")

	line := lastNonEmptyLine(buf.String())
	if line == "" {
		t.Fatalf("no output captured")
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, line)
	}
	if svc, ok := payload["service"].(string); !ok || svc != "test-service" {
		t.Fatalf("expected service=\"test-service\", got %v", payload["service"])
	}
	if lvl, ok := payload["level"].(string); !ok || lvl != "error" {
		t.Fatalf("expected level=\"error\", got %v", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field in error log: %s", line)
	}
}

func TestLoggerLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
	}{
		{"debug", true},
		{"DEBUG", true},
		{"warn", false},
		{"nonsense", false},
		{"", false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "svc", tt.level)
		log.Debug().Msg("hello")
		if got := buf.Len() > 0; got != tt.debug {
			t.Errorf("level %q: debug logged = %v, want %v", tt.level, got, tt.debug)
		}
	}
}
