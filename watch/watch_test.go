package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingAdder struct {
	mu    sync.Mutex
	added []string
}

func (a *recordingAdder) Add(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.added = append(a.added, name)
	return nil
}

func TestDebouncer(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	d := NewDebouncer(2*time.Second, clock.now)

	assert.True(t, d.Allow(), "first trigger always runs")

	clock.advance(500 * time.Millisecond)
	assert.False(t, d.Allow(), "inside cooldown")

	clock.advance(1500 * time.Millisecond)
	assert.False(t, d.Allow(), "elapsed equal to cooldown is still inside")

	clock.advance(time.Millisecond)
	assert.True(t, d.Allow())

	d.Reset()
	assert.True(t, d.Allow(), "reset forgets the last trigger")
}

// loopHarness drives Watcher.loop with synthetic events.
type loopHarness struct {
	events chan fsnotify.Event
	errs   chan error
	adder  *recordingAdder
	cancel context.CancelFunc
	done   chan error
}

func startLoop(t *testing.T, w *Watcher) *loopHarness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	h := &loopHarness{
		events: make(chan fsnotify.Event),
		errs:   make(chan error),
		adder:  &recordingAdder{},
		cancel: cancel,
		done:   make(chan error, 1),
	}
	go func() {
		h.done <- w.loop(ctx, h.events, h.errs, h.adder)
	}()
	t.Cleanup(cancel)
	return h
}

// flush returns once every previously sent event has been handled.
func (h *loopHarness) flush() {
	h.events <- fsnotify.Event{Name: "flush", Op: fsnotify.Chmod}
}

// stop cancels the loop and waits for it. Event sends are unbuffered, so
// every event sent before stop has been fully handled.
func (h *loopHarness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopCoalescesBurst(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	w := New(Config{Root: "model", Cooldown: 2 * time.Second, Clock: clock.now}, runner, nil)
	h := startLoop(t, w)

	h.events <- fsnotify.Event{Name: "model/WorkOrder.java", Op: fsnotify.Write}
	h.flush()
	clock.advance(500 * time.Millisecond)
	h.events <- fsnotify.Event{Name: "model/Asset.java", Op: fsnotify.Write}
	h.stop(t)

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestLoopRunsAfterCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	w := New(Config{Root: "model", Clock: clock.now}, runner, nil)
	h := startLoop(t, w)

	h.events <- fsnotify.Event{Name: "model/WorkOrder.java", Op: fsnotify.Write}
	h.flush()
	clock.advance(DefaultCooldown + time.Second)
	h.events <- fsnotify.Event{Name: "model/WorkOrder.java", Op: fsnotify.Remove}
	h.stop(t)

	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
}

func TestLoopFiltersEvents(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		event      fsnotify.Event
		want       int32
	}{
		{"java write", nil, fsnotify.Event{Name: "m/A.java", Op: fsnotify.Write}, 1},
		{"upper case extension", nil, fsnotify.Event{Name: "m/A.JAVA", Op: fsnotify.Create}, 1},
		{"rename", nil, fsnotify.Event{Name: "m/A.java", Op: fsnotify.Rename}, 1},
		{"other extension", nil, fsnotify.Event{Name: "m/notes.md", Op: fsnotify.Write}, 0},
		{"chmod only", nil, fsnotify.Event{Name: "m/A.java", Op: fsnotify.Chmod}, 0},
		{"configured without dot", []string{"java"}, fsnotify.Event{Name: "m/A.java", Op: fsnotify.Write}, 1},
		{"configured upper case", []string{"KT"}, fsnotify.Event{Name: "m/A.kt", Op: fsnotify.Write}, 1},
		{"configured other", []string{"kt"}, fsnotify.Event{Name: "m/A.java", Op: fsnotify.Write}, 0},
		{"unwatched path without extension", nil, fsnotify.Event{Name: "m/inspection", Op: fsnotify.Remove}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var runs int32
			runner := RunnerFunc(func(ctx context.Context) error {
				atomic.AddInt32(&runs, 1)
				return nil
			})

			h := startLoop(t, New(Config{Root: "m", Extensions: tt.extensions}, runner, nil))
			h.events <- tt.event
			h.stop(t)

			assert.Equal(t, tt.want, atomic.LoadInt32(&runs))
		})
	}
}

func TestLoopContinuesAfterFailure(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		if atomic.AddInt32(&runs, 1) == 1 {
			return errors.New("exit status 1")
		}
		return nil
	})

	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Output: &logs, Level: hclog.Info})

	w := New(Config{Root: "m", Clock: clock.now}, runner, logger)
	h := startLoop(t, w)

	h.events <- fsnotify.Event{Name: "m/A.java", Op: fsnotify.Write}
	h.errs <- errors.New("queue overflow")
	h.flush()
	clock.advance(3 * time.Second)
	h.events <- fsnotify.Event{Name: "m/A.java", Op: fsnotify.Write}
	h.stop(t)

	assert.Equal(t, int32(2), atomic.LoadInt32(&runs))
	assert.Contains(t, logs.String(), "regeneration failed")
	assert.Contains(t, logs.String(), ErrRegeneration.Error())
	assert.Contains(t, logs.String(), "queue overflow")
}

func TestLoopWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "inspection")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "checklist"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "target"), 0o755))

	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	h := startLoop(t, New(Config{Root: root}, runner, nil))
	h.events <- fsnotify.Event{Name: sub, Op: fsnotify.Create}
	h.stop(t)

	assert.Equal(t, []string{sub, filepath.Join(sub, "checklist")}, h.adder.added)
	assert.Zero(t, atomic.LoadInt32(&runs), "a new directory alone does not regenerate")
}

func TestLoopRegeneratesForDirectoryWithSources(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "inspection")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "checklist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "checklist", "Checklist.java"), []byte("@Entity class Checklist {}"), 0o644))
	excluded := filepath.Join(root, "build")
	require.NoError(t, os.MkdirAll(excluded, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(excluded, "Generated.java"), []byte("@Entity class Generated {}"), 0o644))

	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	h := startLoop(t, New(Config{Root: root}, runner, nil))
	h.events <- fsnotify.Event{Name: excluded, Op: fsnotify.Create}
	h.flush()
	assert.Zero(t, atomic.LoadInt32(&runs), "excluded directories are ignored")
	assert.Empty(t, h.adder.added)

	h.events <- fsnotify.Event{Name: sub, Op: fsnotify.Create}
	h.stop(t)

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	assert.Equal(t, []string{sub, filepath.Join(sub, "checklist")}, h.adder.added)
}

func TestLoopRegeneratesForRemovedDirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "inspection")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "checklist"), 0o755))

	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	h := startLoop(t, New(Config{Root: root, Clock: clock.now}, runner, nil))
	h.events <- fsnotify.Event{Name: sub, Op: fsnotify.Create}
	h.flush()
	require.Zero(t, atomic.LoadInt32(&runs))

	require.NoError(t, os.RemoveAll(sub))
	h.events <- fsnotify.Event{Name: sub, Op: fsnotify.Remove}
	h.flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	clock.advance(DefaultCooldown + time.Second)
	h.events <- fsnotify.Event{Name: filepath.Join(sub, "checklist"), Op: fsnotify.Remove}
	h.stop(t)

	assert.Equal(t, int32(1), atomic.LoadInt32(&runs), "nested directories are forgotten with their parent")
}

func TestLoopClosedChannel(t *testing.T) {
	w := New(Config{Root: "m"}, RunnerFunc(func(context.Context) error { return nil }), nil)
	events := make(chan fsnotify.Event)
	close(events)

	err := w.loop(context.Background(), events, make(chan error), &recordingAdder{})
	assert.Error(t, err)
}

func TestRunRejectsInvalidRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "WorkOrder.java")
	require.NoError(t, os.WriteFile(file, []byte("class WorkOrder {}"), 0o644))

	runner := RunnerFunc(func(context.Context) error { return nil })

	err := New(Config{Root: filepath.Join(t.TempDir(), "missing")}, runner, nil).Run(context.Background())
	assert.ErrorContains(t, err, "failed to open watch root")

	err = New(Config{Root: file}, runner, nil).Run(context.Background())
	assert.ErrorContains(t, err, "is not a directory")
}

func TestRunDetectsFileChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file system watch test in short mode")
	}

	root := t.TempDir()
	var runs int32
	runner := RunnerFunc(func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := New(Config{Root: root, Cooldown: 50 * time.Millisecond, RunOnStart: true}, runner, nil)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "Reading.java"), []byte("@Entity class Reading {}"), 0o644))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestExecRunner(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		r, err := NewExecRunner([]string{"/bin/sh", "-c", "echo generated"}, t.TempDir())
		require.NoError(t, err)
		r.Stdout = &out

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, "generated\n", out.String())
	})

	t.Run("non-zero exit", func(t *testing.T) {
		r, err := NewExecRunner([]string{"/bin/sh", "-c", "exit 3"}, "")
		require.NoError(t, err)
		r.Stderr = &bytes.Buffer{}

		err = r.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRegeneration)
		assert.Contains(t, err.Error(), "exit status 3")
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := NewExecRunner(nil, "")
		assert.Error(t, err)
	})

	assert.Equal(t, "go run ./cmd/entitydoc generate", (&ExecRunner{Command: "go", Args: []string{"run", "./cmd/entitydoc", "generate"}}).String())
}
