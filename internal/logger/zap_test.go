package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "warn", Format: "json", Output: path, Service: "catalog"}, SentryConfig{})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", zap.String("provider", "books"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"message":"kept"`)
	assert.Contains(t, string(data), `"service":"catalog"`)
	assert.Contains(t, string(data), `"provider":"books"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", Output: "stderr"}, SentryConfig{})
	require.NoError(t, err)

	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_SentryWithoutDSNStaysDisabled(t *testing.T) {
	l, err := New(Config{Output: "stderr"}, SentryConfig{Enabled: true})
	require.NoError(t, err)
	assert.False(t, l.sentryEnabled)
}

func TestFieldsToMap(t *testing.T) {
	m := fieldsToMap([]zapcore.Field{
		zap.String("provider", "videos"),
		zap.Int("count", 3),
		zap.Float64("ratio", 0.5),
		zap.Bool("ok", true),
		zap.Duration("took", 1500*time.Millisecond),
		zap.Error(errors.New("boom")),
	})

	assert.Equal(t, "videos", m["provider"])
	assert.Equal(t, int64(3), m["count"])
	assert.Equal(t, 0.5, m["ratio"])
	assert.Equal(t, true, m["ok"])
	assert.Equal(t, "1.5s", m["took"])
	assert.Equal(t, "boom", m["error"])
}

func TestZapLevelToSentry(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  sentry.Level
	}{
		{zapcore.DebugLevel, sentry.LevelDebug},
		{zapcore.WarnLevel, sentry.LevelWarning},
		{zapcore.ErrorLevel, sentry.LevelError},
		{zapcore.FatalLevel, sentry.LevelFatal},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, zapLevelToSentry(tt.level))
		})
	}
}

func TestSentryCore_CheckOnlyErrors(t *testing.T) {
	core := newSentryCore(zapcore.DebugLevel)

	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.WarnLevel}, nil))
	assert.NotNil(t, core.Check(zapcore.Entry{Level: zapcore.ErrorLevel}, nil))
}
