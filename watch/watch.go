// Package watch re-runs documentation generation when source files change.
//
// Events are debounced with a leading-edge cooldown: the first relevant
// change runs the regeneration immediately, and changes arriving within the
// cooldown after it are dropped. Runs execute on the event loop goroutine,
// so two runs never overlap.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/phillipfoxsmaflex/entitydoc/scanner"
)

// DefaultCooldown is used when Config.Cooldown is zero.
const DefaultCooldown = 2 * time.Second

// relevantOps are the operations that trigger a run.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Config configures a Watcher.
type Config struct {
	// Root is the directory watched recursively.
	Root string
	// Extensions filters changed files. Defaults to scanner.DefaultExtensions.
	Extensions []string
	// ExcludeDirs are directory names that are never watched. Defaults to
	// scanner.DefaultExcludeDirs.
	ExcludeDirs []string
	Cooldown    time.Duration
	RunOnStart  bool

	// Clock overrides time.Now for debouncing.
	Clock func() time.Time
}

// Watcher watches a source tree and invokes a Runner on changes.
type Watcher struct {
	root        string
	extensions  []string
	excludeDirs map[string]bool
	runOnStart  bool
	// dirs holds the watched directories.
	dirs map[string]bool
	cooldown    time.Duration

	runner   Runner
	debounce *Debouncer
	logger   hclog.Logger
}

// New creates a Watcher. A nil logger discards output.
func New(cfg Config, runner Runner, logger hclog.Logger) *Watcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}

	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = scanner.DefaultExtensions
	}
	excludeDirs := cfg.ExcludeDirs
	if excludeDirs == nil {
		excludeDirs = scanner.DefaultExcludeDirs
	}

	w := &Watcher{
		root:        cfg.Root,
		runOnStart:  cfg.RunOnStart,
		cooldown:    cfg.Cooldown,
		runner:      runner,
		debounce:    NewDebouncer(cfg.Cooldown, cfg.Clock),
		logger:      logger,
		excludeDirs: make(map[string]bool, len(excludeDirs)),
		dirs:        make(map[string]bool),
	}
	for _, ext := range extensions {
		w.extensions = append(w.extensions, scanner.NormalizeExtension(ext))
	}
	for _, dir := range excludeDirs {
		w.excludeDirs[dir] = true
	}
	return w
}

// Run watches until ctx is cancelled. It returns an error only when watching
// cannot start or the underlying watcher stops unexpectedly.
func (w *Watcher) Run(ctx context.Context) error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("failed to open watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch root %s is not a directory", w.root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}

	w.logger.Info("watching for changes", "root", w.root, "cooldown", w.cooldown)

	if w.runOnStart {
		w.trigger(ctx, "startup")
	}

	return w.loop(ctx, fw.Events, fw.Errors, fw)
}

type adder interface {
	Add(name string) error
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, fw adder) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopped watching")
			return nil

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.handle(ctx, event, fw)

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event, fw adder) {
	if event.Op&relevantOps == 0 {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.excludeDirs[info.Name()] {
				return
			}
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			if w.holdsSources(event.Name) {
				w.logger.Debug("directory with sources added", "path", event.Name)
				w.trigger(ctx, event.Name)
			}
			return
		}
	}

	// A removed or renamed directory may have held sources; it no longer
	// exists, so its contents cannot be checked.
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.forgetTree(event.Name) {
		w.logger.Debug("directory removed", "path", event.Name)
		w.trigger(ctx, event.Name)
		return
	}

	if !w.matches(event.Name) {
		return
	}

	w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
	w.trigger(ctx, event.Name)
}

// trigger runs the regeneration unless the debouncer drops it.
func (w *Watcher) trigger(ctx context.Context, reason string) {
	if !w.debounce.Allow() {
		w.logger.Trace("change coalesced", "path", reason)
		return
	}

	w.logger.Info("regenerating", "trigger", reason)
	start := time.Now()
	if err := w.runner.Run(ctx); err != nil {
		if !errors.Is(err, ErrRegeneration) {
			err = fmt.Errorf("%w: %w", ErrRegeneration, err)
		}
		w.logger.Error("regeneration failed", "error", err)
		return
	}
	w.logger.Info("regeneration complete", "duration", time.Since(start))
}

func (w *Watcher) matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range w.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (w *Watcher) addTree(fw adder, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to walk %s: %w", path, err)
			}
			w.logger.Warn("skipping unreadable directory", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.excludeDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.dirs[path] = true
		w.logger.Trace("watching directory", "path", path)
		return nil
	})
}

// forgetTree drops path and every watched directory below it. It reports
// whether path was a watched directory.
func (w *Watcher) forgetTree(path string) bool {
	if !w.dirs[path] {
		return false
	}
	prefix := path + string(filepath.Separator)
	for dir := range w.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
		}
	}
	return true
}

// holdsSources reports whether a file with a watched extension exists below
// root outside excluded directories.
func (w *Watcher) holdsSources(root string) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && w.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if w.matches(path) {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}
