package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestShouldProcessEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"json write", fsnotify.Event{Name: "tenants/acme.json", Op: fsnotify.Write}, true},
		{"json create", fsnotify.Event{Name: "providers.json", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "providers.json", Op: fsnotify.Chmod}, false},
		{"hidden file", fsnotify.Event{Name: "tenants/.acme.json.swp", Op: fsnotify.Write}, false},
		{"non-json", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldProcessEvent(tt.ev); got != tt.want {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestDebouncerCollapsesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int64
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 after a burst", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int64
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("calls = %d, want 0 after stop", got)
	}
}

func TestFileWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tenants.json", `{}`)

	fw, err := NewFileWatcher([]string{dir}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		fw.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// Give the watch loop time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`{"changed": true}`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload callback never fired")
		case <-time.After(20 * time.Millisecond):
		}
	}

	if err := fw.Stop(); err != nil {
		t.Errorf("stop: %v", err)
	}
	<-done
}

func TestFileWatcherRejectsEmptyPaths(t *testing.T) {
	if _, err := NewFileWatcher(nil, time.Second, nil); err == nil {
		t.Error("empty path list should be rejected")
	}
}

func TestFileWatcherStopWithoutWatch(t *testing.T) {
	fw, err := NewFileWatcher([]string{t.TempDir()}, time.Second, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher: %v", err)
	}
	if err := fw.Stop(); err != nil {
		t.Errorf("stop before watch: %v", err)
	}
}
