package logger_test

import (
	"agent-staffing/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, encoding := range []string{"json", "console", ""} {
		t.Run("Encoding_"+encoding, func(t *testing.T) {
			l, err := logger.New("debug", encoding)
			require.NoError(t, err)
			l.Debug("dbg", "k", 1)
			l.Info("info")
			l.Warn("warn")
			l.Error("err")
		})
	}

	_, err := logger.New("info", "xml")
	assert.Error(t, err)
	_, err = logger.New("verbose", "json")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for input, expected := range tests {
		t.Run("Level_"+input, func(t *testing.T) {
			got, err := logger.ParseLevel(input)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestFromZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := logger.FromZap(zap.New(core))

	l.Debug("hidden")
	l.Info("run finished", "customers", 3, "peak", 42)
	l.Warn("duplicate customer", "name", "Acme")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run finished", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"customers": int64(3), "peak": int64(42)}, entries[0].ContextMap())
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestNewNop(t *testing.T) {
	l := logger.NewNop()
	l.Info("ignored", "k", "v")
	assert.NoError(t, l.Sync())
}
