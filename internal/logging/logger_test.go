package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestNewLogger verifies basic logger creation
func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"JSON Info", "json", "info"},
		{"JSON Debug", "json", "debug"},
		{"JSON Error", "json", "error"},
		{"Console Info", "console", "info"},
		{"Console Debug", "console", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(Config{Format: tt.format, Level: tt.level})
			require.NoError(t, err)
			logger.Info("heartbeat")
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(Config{Format: "json", Level: "invalid"})
	assert.Error(t, err)
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf zaptest
	logger, err := NewLogger(Config{Format: "json", Level: "info", Output: &buf})
	require.NoError(t, err)
	logger.Info("evaluation done")
	require.NoError(t, logger.Sync())

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.b.Bytes(), &record))
	assert.Equal(t, "evaluation done", record["msg"])
	assert.Equal(t, "info", record["level"])
	assert.Contains(t, record, "timestamp")
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	logger.Error("goes nowhere")
}

// zaptest is a minimal WriteSyncer over a buffer.
type zaptest struct {
	b bytes.Buffer
}

func (z *zaptest) Write(p []byte) (int, error) { return z.b.Write(p) }
func (z *zaptest) Sync() error                 { return nil }

var _ zapcore.WriteSyncer = (*zaptest)(nil)
