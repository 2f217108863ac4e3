package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func restoreStdLog(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
		log.SetPrefix("")
	})
}

func TestSetupLoggingDisabledByDefault(t *testing.T) {
	restoreStdLog(t)

	logger, f, err := setupLogging(false, "info")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
	assert.Equal(t, io.Discard, log.Writer())
}

func TestSetupLoggingEnabledWithDebug(t *testing.T) {
	t.Chdir(t.TempDir())
	restoreStdLog(t)

	logger, f, err := setupLogging(true, "debug")
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()

	logger.Info("test message")
	log.Println("std message")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(filepath.Join(logDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
	assert.Contains(t, string(data), "std message")

	assert.NotEqual(t, os.Stdout, log.Writer())
	assert.NotEqual(t, os.Stderr, log.Writer())
}

func TestSetupLoggingRotation(t *testing.T) {
	t.Chdir(t.TempDir())
	restoreStdLog(t)

	require.NoError(t, os.MkdirAll(logDir, 0o755))
	logPath := filepath.Join(logDir, logFileName)
	require.NoError(t, os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644))

	_, f, err := setupLogging(true, "info")
	require.NoError(t, err)
	defer f.Close()

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	rotated := false
	for _, e := range entries {
		if e.Name() != logFileName && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	assert.True(t, rotated, "expected rotated log file")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(maxLogSize))
}

func TestSetupLoggingBadLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := setupLogging(true, "loud")
	assert.Error(t, err)
}
