package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func TestWatchDirectoryReportsSourceFiles(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	w, err := NewWatcher([]string{".pitanja"})
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	require.NoError(t, w.Watch([]string{dir}, rec.record, nil))

	quiz := filepath.Join(dir, "quiz.pitanja")
	other := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(other, []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(quiz, []byte("@PITANJA_FILE quiz\n"), 0o644))

	assert.Eventually(t, func() bool { return rec.seen(quiz) }, 2*time.Second, 20*time.Millisecond)
	assert.False(t, rec.seen(other))
}

func TestWatchSingleFile(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	target := filepath.Join(dir, "quiz.any")
	sibling := filepath.Join(dir, "sibling.pitanja")
	require.NoError(t, os.WriteFile(target, []byte("@PITANJA_FILE quiz\n"), 0o644))

	w, err := NewWatcher([]string{".pitanja"})
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	require.NoError(t, w.Watch([]string{target}, rec.record, nil))

	require.NoError(t, os.WriteFile(sibling, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("@PITANJA_FILE changed\n"), 0o644))

	assert.Eventually(t, func() bool { return rec.seen(target) }, 2*time.Second, 20*time.Millisecond)
	assert.False(t, rec.seen(sibling))
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatchMissingPath(t *testing.T) {
	w, err := NewWatcher(nil)
	require.NoError(t, err)
	defer w.Stop()

	err = w.Watch([]string{filepath.Join(t.TempDir(), "missing")}, func(string) {}, nil)
	assert.Error(t, err)
}

func TestWatchStartsOnce(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	w, err := NewWatcher([]string{".pitanja"})
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, w.Watch([]string{dir}, rec.record, nil))
	assert.ErrorIs(t, w.Watch([]string{dir}, rec.record, nil), ErrStarted)

	require.NoError(t, w.Stop())
	assert.ErrorIs(t, w.Watch([]string{dir}, rec.record, nil), ErrStarted)
}
