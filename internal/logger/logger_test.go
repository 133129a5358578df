package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:   "text format at info level",
			config: Config{Level: "info", Format: "text", Output: "stdout"},
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "level=INFO") ||
					!strings.Contains(output, "msg=\"review requested\"") {
					t.Errorf("expected text log line with info level and message, got: %s", output)
				}
			},
		},
		{
			name:   "json format",
			config: Config{Level: "info", Format: "json", Output: "stdout"},
			checkFunc: func(t *testing.T, output string) {
				var entry map[string]any
				if err := json.Unmarshal([]byte(output), &entry); err != nil {
					t.Fatalf("failed to unmarshal JSON log: %v, output: %s", err, output)
				}
				if entry["level"] != "INFO" || entry["msg"] != "review requested" {
					t.Errorf("unexpected JSON log entry: %v", entry)
				}
			},
		},
		{
			name:   "warn level filters info",
			config: Config{Level: "warn", Format: "text", Output: "stdout"},
			checkFunc: func(t *testing.T, output string) {
				if output != "" {
					t.Errorf("expected info message to be filtered at warn level, got: %s", output)
				}
			},
		},
		{
			name:   "unknown level and format fall back to info text",
			config: Config{Level: "chatty", Format: "xml", Output: "stdout"},
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "level=INFO") ||
					!strings.Contains(output, "msg=\"review requested\"") {
					t.Errorf("expected text log line at info level, got: %s", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.config, &buf)

			logger.Info("review requested", "pr", "acme/widgets#7")

			tt.checkFunc(t, buf.String())
		})
	}
}
