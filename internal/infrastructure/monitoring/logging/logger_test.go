package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapFields_TypedConstructors(t *testing.T) {
	t.Parallel()

	fields := []Field{
		String("s", "v"),
		Int("i", 7),
		Int64("i64", 42),
		Float64("f", 1.5),
		Bool("b", true),
		Duration("d", 2*time.Second),
		Err(errors.New("boom")),
		Any("any", struct{ X int }{X: 1}),
	}

	zf := toZapFields(fields)
	require.Len(t, zf, len(fields))
	assert.Equal(t, "s", zf[0].Key)
	assert.Equal(t, "error", zf[6].Key)
}

func TestErr_NilError(t *testing.T) {
	t.Parallel()

	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestLoggerEmitsAtConfiguredLevel(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	log := NewLoggerFromCore(core)

	log.Debug("suppressed")
	log.Info("kept", String("k", "v"))
	log.Warn("also kept")

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "v", entries[0].ContextMap()["k"])
}

func TestWithAttachesFieldsToChildren(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).With(String("request_id", "abc"))

	log.Info("one")
	log.Named("sub").Info("two")

	for _, e := range observed.All() {
		assert.Equal(t, "abc", e.ContextMap()["request_id"])
	}
}

func TestNewLogger_DefaultsApply(t *testing.T) {
	t.Parallel()

	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestNopLoggerIsInert(t *testing.T) {
	t.Parallel()

	log := NewNopLogger()
	log.Debug("x")
	log.Info("x")
	log.Warn("x")
	log.Error("x")
	assert.NotNil(t, log.With(String("a", "b")))
	assert.NotNil(t, log.Named("child"))
}
