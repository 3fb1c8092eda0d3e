package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "users.sql")
	otherFile := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watchedFile, []byte("CREATE TABLE users (id int);"), 0o644))

	w := NewWatcher([]string{watchedFile}, testLogger())
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(path string) { changes <- path })
	}()

	// Keep writing until the watcher is up and reports the change
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	var got string
loop:
	for {
		select {
		case got = <-changes:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(otherFile, []byte("ignored"), 0o644))
			require.NoError(t, os.WriteFile(watchedFile, []byte("CREATE TABLE users (id int, name text);"), 0o644))
		case <-deadline:
			t.Fatal("Timed out waiting for change notification")
		}
	}

	abs, err := filepath.Abs(watchedFile)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "users.sql")}, testLogger())

	err := w.Watch(context.Background(), func(string) {})
	assert.Error(t, err)
}
