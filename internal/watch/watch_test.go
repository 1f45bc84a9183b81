package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Dirs: []string{t.TempDir()}})
	require.Error(t, err)

	_, err = New(Config{Build: func(context.Context) error { return nil }})
	require.Error(t, err)

	w, err := New(Config{Dirs: []string{t.TempDir()}, Build: func(context.Context) error { return nil }})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.cfg.Debounce)
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/site/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/site/post.md~"))
	assert.True(t, shouldIgnoreEvent("/site/.post.md.swp"))
	assert.True(t, shouldIgnoreEvent("/site/#post.md#"))
	assert.False(t, shouldIgnoreEvent("/site/post.md"))
}

func TestIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	built := filepath.Join(root, "built")
	w, err := New(Config{Dirs: []string{root}, Ignore: []string{built}, Build: func(context.Context) error { return nil }})
	require.NoError(t, err)

	assert.True(t, w.ignored(filepath.Join(built, "index.html")))
	assert.True(t, w.ignored(built))
	assert.False(t, w.ignored(filepath.Join(root, "built-notes", "a.md")))
	assert.False(t, w.ignored(filepath.Join(root, "published", "a.md")))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	published := filepath.Join(root, "published")
	built := filepath.Join(root, "built")
	require.NoError(t, os.MkdirAll(published, 0o750))
	require.NoError(t, os.MkdirAll(built, 0o750))

	var builds atomic.Int32
	w, err := New(Config{
		Dirs:     []string{root},
		Ignore:   []string{built},
		Debounce: 20 * time.Millisecond,
		Build: func(context.Context) error {
			builds.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(published, "a.md"), []byte("# a"), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	settled := builds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(built, "index.html"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, settled, builds.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
