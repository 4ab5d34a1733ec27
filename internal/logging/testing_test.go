package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestTestLogger_Observes(t *testing.T) {
	tl := NewTestLogger()

	tl.Info("walk finished", zap.Int("files", 3))
	tl.Warn("field already registered")

	assert.Len(t, tl.All(), 2)
	tl.AssertLogged(t, zapcore.InfoLevel, "walk finished")
	tl.AssertLogged(t, zapcore.WarnLevel, "already registered")
	tl.AssertNotLogged(t, zapcore.ErrorLevel, "walk finished")
	tl.AssertField(t, "walk finished", "files", int64(3))
}

func TestTestLogger_Reset(t *testing.T) {
	tl := NewTestLogger()

	tl.Info("before reset")
	tl.Reset()
	tl.Info("after reset")

	assert.Len(t, tl.All(), 1)
	assert.Equal(t, 0, tl.FilterMessage("before reset").Len())
}
