package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_triggersRebuildOnJSONChange(t *testing.T) {
	dir := t.TempDir()
	var rebuilds int32
	w := New([]string{dir}, func() { atomic.AddInt32(&rebuilds, 1) }, zap.NewNop(), WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "rne_laws.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&rebuilds) >= 1 }) {
		t.Fatal("rebuild not triggered")
	}
}

func TestWatcher_debouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var rebuilds int32
	w := New([]string{dir}, func() { atomic.AddInt32(&rebuilds, 1) }, zap.NewNop(), WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "external_data.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt32(&rebuilds) >= 1 }) {
		t.Fatal("rebuild not triggered")
	}
	time.Sleep(300 * time.Millisecond)
	if n := atomic.LoadInt32(&rebuilds); n != 1 {
		t.Errorf("burst should debounce to one rebuild, got %d", n)
	}
}

func TestWatcher_ignoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var rebuilds int32
	w := New([]string{dir}, func() { atomic.AddInt32(&rebuilds, 1) }, zap.NewNop(), WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := atomic.LoadInt32(&rebuilds); n != 0 {
		t.Errorf("non-json change should not rebuild, got %d", n)
	}
}

func TestWatcher_stopIsIdempotent(t *testing.T) {
	w := New([]string{t.TempDir()}, func() {}, zap.NewNop())
	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
