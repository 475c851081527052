package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/linkman/internal/adapters/watcher"
	"go.trai.ch/linkman/internal/core/ports"
	"go.trai.ch/linkman/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsWatchedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "chair_Lo.blend")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("collections: []\n"), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), []string{watched}))

	events := make(chan ports.WatchEvent, 10)
	go func() {
		for ev := range w.Events() {
			events <- ev
		}
		close(events)
	}()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(watched, []byte("collections: [{name: Chair}]\n"), 0o600))

	select {
	case ev := <-events:
		assert.Equal(t, watched, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for watched file")
	}

	require.NoError(t, w.Stop())
	for ev := range events {
		assert.Equal(t, watched, ev.Path)
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start(t.Context(), []string{filepath.Join(t.TempDir(), "gone", "a.blend")})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to watch library files")
}
