package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9999\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Fatalf("Listen = %q, want :9999", cfg.Listen)
	}
	if cfg.ScrollbackLines != Default().ScrollbackLines {
		t.Fatalf("ScrollbackLines = %d, want default %d", cfg.ScrollbackLines, Default().ScrollbackLines)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("line_cache_capacity: 10\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	got := make(chan Config, 1)
	w.OnConfig(func(cfg Config) { got <- cfg })

	if err := os.WriteFile(path, []byte("line_cache_capacity: 99\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.LineCacheCapacity != 99 {
			t.Fatalf("LineCacheCapacity = %d, want 99", cfg.LineCacheCapacity)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe the config file rewrite in time")
	}
}
