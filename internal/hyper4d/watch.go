package hyper4d

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher reloads a config file when it changes and hands the decoded
// result to the frame loop. It is the only goroutine besides the frame loop;
// the loop drains Updates between frames.
type ConfigWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	log      *zap.Logger
	debounce time.Duration
	pending  time.Time
	updates  chan *Config
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	reloads  int
	failures int
}

// NewConfigWatcher watches the directory holding path, so editors that
// replace the file on save are still seen.
func NewConfigWatcher(path string, log *zap.Logger) (*ConfigWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &ConfigWatcher{
		watcher:  w,
		path:     abs,
		log:      log,
		debounce: 200 * time.Millisecond, // editors write in bursts
		updates:  make(chan *Config, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Updates delivers the newest successfully loaded config.
func (cw *ConfigWatcher) Updates() <-chan *Config { return cw.updates }

// Start is non-blocking; the watcher runs until Stop or ctx is done.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		cw.mu.Lock()
		cw.running = false
		cw.mu.Unlock()
		return err
	}
	cw.log.Info("watching config", zap.String("path", cw.path))
	go cw.run(ctx)
	return nil
}

// Stop ends the watcher and waits for it.
func (cw *ConfigWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh
	if err := cw.watcher.Close(); err != nil {
		cw.log.Error("closing config watcher", zap.Error(err))
	}
}

func (cw *ConfigWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(ev)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn("config watcher error", zap.Error(err))
		case now := <-tick.C:
			cw.flush(now)
		}
	}
}

func (cw *ConfigWatcher) handleEvent(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != cw.path {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	cw.mu.Lock()
	cw.pending = time.Now()
	cw.mu.Unlock()
}

// flush reloads once the file has been quiet for the debounce interval.
func (cw *ConfigWatcher) flush(now time.Time) {
	cw.mu.Lock()
	if cw.pending.IsZero() || now.Sub(cw.pending) < cw.debounce {
		cw.mu.Unlock()
		return
	}
	cw.pending = time.Time{}
	cw.mu.Unlock()

	cfg, err := LoadConfig(cw.path)
	if err != nil {
		cw.mu.Lock()
		cw.failures++
		cw.mu.Unlock()
		cw.log.Warn("config reload failed, keeping previous", zap.Error(err))
		return
	}
	cw.mu.Lock()
	cw.reloads++
	cw.mu.Unlock()
	// keep only the newest config
	select {
	case <-cw.updates:
	default:
	}
	cw.updates <- cfg
	cw.log.Info("config reloaded", zap.String("path", cw.path))
}

// Counts reports successful and failed reloads.
func (cw *ConfigWatcher) Counts() (reloads, failures int) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.reloads, cw.failures
}
