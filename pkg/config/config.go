// Package config loads the mux runtime's ambient settings from YAML and,
// once loaded, watches the file for edits so that registered caches pick
// up a new cache capacity, and registered callbacks receive the reloaded
// settings, without restarting the server.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables an operator can set in the mux
// server's YAML config file.
type Config struct {
	// Listen is the address the HTTP/websocket transport listens on, e.g.
	// ":7681". Browser and other websocket clients connect here.
	Listen string `yaml:"listen"`

	// CodecListen is the address the plain TCP codec transport listens
	// on, for CLI and other non-browser clients that speak the wire
	// protocol directly instead of over a websocket.
	CodecListen string `yaml:"codec_listen"`

	// TLSDomain, if set, enables certmagic automatic TLS for Listen.
	TLSDomain string `yaml:"tls_domain"`
	TLSEmail  string `yaml:"tls_email"`

	// ScrollbackLines bounds how many lines of history each pane retains
	// beyond its viewport.
	ScrollbackLines int `yaml:"scrollback_lines"`

	// GraphicsMemoryBudget bounds how many bytes of decoded Kitty image
	// data a single pane may hold before the oldest unreferenced image is
	// evicted.
	GraphicsMemoryBudget int `yaml:"graphics_memory_budget"`

	// LineCacheCapacity sizes the LFU cache used to memoize rendered
	// lines; raising it trades memory for fewer re-renders on scrollback
	// search.
	LineCacheCapacity int `yaml:"line_cache_capacity"`
}

// Default returns the settings a freshly installed server starts with.
func Default() Config {
	return Config{
		Listen:               ":7681",
		CodecListen:          ":7682",
		ScrollbackLines:      10_000,
		GraphicsMemoryBudget: 64 << 20,
		LineCacheCapacity:    4096,
	}
}

// Load reads and parses a YAML config file, filling in Default() for any
// field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// CacheResizer is the subset of pkg/lfucache's Cache used by hot-reload:
// any instantiation of Cache[K, V] satisfies it.
type CacheResizer interface {
	UpdateConfig(capacity int)
}

// Watcher reloads a config file on every write and applies the parts of
// it that can change live (cache capacity today; other fields take effect
// on next restart).
type Watcher struct {
	path   string
	log    *zap.Logger
	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	caches []CacheResizer
	onLoad []func(Config)
}

// NewWatcher starts watching path for writes. Call Close to stop.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", path, err)
	}

	w := &Watcher{path: path, log: log, fsw: fsw}
	go w.run()
	return w, nil
}

// OnReload registers a cache whose capacity should track
// LineCacheCapacity on every reload.
func (w *Watcher) OnReload(c CacheResizer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.caches = append(w.caches, c)
}

// OnConfig registers a callback invoked with the freshly reloaded config
// on every successful reload, for settings a cache resize can't cover.
func (w *Watcher) OnConfig(fn func(Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLoad = append(w.onLoad, fn)
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("config watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		if w.log != nil {
			w.log.Warn("config reload failed, keeping previous settings", zap.Error(err))
		}
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.caches {
		c.UpdateConfig(cfg.LineCacheCapacity)
	}
	for _, fn := range w.onLoad {
		fn(cfg)
	}
	if w.log != nil {
		w.log.Info("config reloaded", zap.String("path", w.path))
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
