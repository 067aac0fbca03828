package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, zerolog.WarnLevel)

	logger.Debug("[test] hidden %d", 1)
	logger.Info("[test] hidden %d", 2)
	assert.Empty(t, buf.String())

	logger.Warn("[test] shown %d", 3)
	assert.Contains(t, buf.String(), "[test] shown 3")
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, zerolog.DebugLevel).With("navigator")

	logger.Error("page %d failed", 7)
	assert.Contains(t, buf.String(), "page 7 failed")
	assert.Contains(t, buf.String(), "navigator")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Error("nothing %s", "here")
	logger.With("x").Info("still nothing")
}
