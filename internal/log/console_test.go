package log

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink unavailable")
}

func TestConsoleLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, Info)

	logger.Debug("hidden: value=%d", 1)
	logger.Info("shown: value=%d", 2)
	logger.Error("shown: value=%d", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO\tshown: value=2")
	assert.Contains(t, lines[1], "ERROR\tshown: value=3")
	assert.Equal(t, Info, logger.Level())
}

func TestConsoleLoggerDropsWriteErrors(t *testing.T) {
	logger := NewConsoleLogger(failingWriter{}, Debug)

	assert.NotPanics(t, func() {
		logger.Debug("dropped")
	})
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, Debug)

	assert.NotPanics(t, func() {
		logger.Warn("dropped")
	})
}

func TestNoopLogger(t *testing.T) {
	logger := NewNoopLogger()

	assert.NotPanics(t, func() {
		logger.Debug("a")
		logger.Info("b")
		logger.Warn("c")
		logger.Error("d")
	})
	assert.Equal(t, Error, logger.Level())
}
