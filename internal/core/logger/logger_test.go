package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	_, al, done := Build(Options{Level: "warn"})
	defer done()
	assert.Equal(t, zapcore.WarnLevel, al.Level())

	require.NoError(t, SetLevel(al, "debug"))
	assert.Equal(t, zapcore.DebugLevel, al.Level())

	assert.Error(t, SetLevel(al, "loud"))
	assert.Equal(t, zapcore.DebugLevel, al.Level())
}

func TestBuild_RotateWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, _, done := Build(Options{
		Level:  "info",
		JSON:   true,
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("hello rotate")
	done()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello rotate")
}
