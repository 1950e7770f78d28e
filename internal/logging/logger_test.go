package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew(t *testing.T) {
	dev := New(false, "debug")
	assert.True(t, dev.Desugar().Core().Enabled(zapcore.DebugLevel))

	prod := New(true, "warn")
	assert.False(t, prod.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, prod.Desugar().Core().Enabled(zapcore.ErrorLevel))
}
