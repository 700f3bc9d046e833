package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ValidConfigs(t *testing.T) {
	for _, tt := range []struct{ level, format string }{
		{"debug", "json"},
		{"info", "console"},
		{"warn", "json"},
		{"error", "console"},
	} {
		logger, err := New(tt.level, tt.format)
		require.NoError(t, err, "%s/%s", tt.level, tt.format)
		require.NotNil(t, logger)
		logger.Sync()
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestTestLogger_Observes(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("swept journal")

	require.Len(t, tl.All(), 1)
	tl.AssertLogged(t, zapcore.InfoLevel, "swept")
}
