package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/miradorstack/mirador-jobdoctor/internal/utils"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JOBDOCTOR_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.Server.Address != ":50061" {
		t.Fatalf("unexpected default address %q", cfg.Server.Address)
	}
	if cfg.Heuristics.Path != "configs/heuristics.yaml" {
		t.Fatalf("unexpected heuristics path %q", cfg.Heuristics.Path)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(`server:
  address: ":7000"
  gracefulTimeout: 3s
logging:
  level: debug
heuristics:
  path: /etc/jobdoctor/heuristics.yaml
  watch: true
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JOBDOCTOR_LOG_FORMAT", "json")
	t.Setenv("JOBDOCTOR_METRICS_ADDRESS", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":7000" || cfg.Server.GracefulTimeout != 3*time.Second {
		t.Fatalf("server config not loaded: %+v", cfg.Server)
	}
	if cfg.Server.MetricsAddress != "" {
		t.Fatalf("expected metrics listener disabled by env, got %q", cfg.Server.MetricsAddress)
	}
	if !cfg.Logging.JSON || cfg.Logging.Level != "debug" {
		t.Fatalf("logging config not applied: %+v", cfg.Logging)
	}
	if !cfg.Heuristics.Watch {
		t.Fatalf("expected heuristics watch enabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("JOBDOCTOR_LOG_LEVEL", "chatty")
	_, err := Load("")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if utils.OpOf(err) != "config.validate" {
		t.Fatalf("expected config.validate error, got %v", err)
	}
}

func TestWatchFileSignalsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heuristics.yaml")
	if err := os.WriteFile(path, []byte("reducerTime: {}\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, nil, func() { changed <- struct{}{} })
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		// Keep writing until the watcher, which starts asynchronously, reports it.
		if err := os.WriteFile(path, []byte("reducerTime:\n  numTasks: [1, 2, 3, 4]\n"), 0644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch returned error: %v", err)
			}
			return
		case <-deadline:
			t.Fatalf("no change notification received")
		case <-tick.C:
		}
	}
}
