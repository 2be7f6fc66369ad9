package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	assert.True(t, NewLogger(true).Core().Enabled(zapcore.DebugLevel))

	info := NewLogger(false)
	assert.False(t, info.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, info.Core().Enabled(zapcore.InfoLevel))
}

func TestSecret(t *testing.T) {
	f := Secret("key", "abcdefghijklmnop")
	assert.Equal(t, "abcd****mnop", f.String)
	assert.Equal(t, "key", f.Key)
}
