package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// exerciseBackend runs the behavior every persistent backend shares.
func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "count:missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	want := []byte(`{"count":1280}`)
	if err := c.Set(ctx, "count:a", want, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "count:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v, want hit", hit, err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %s, want %s", got, want)
	}

	if err := c.Delete(ctx, "count:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "count:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "count:a"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}

	for _, k := range []string{"count:x", "classes:y"} {
		if err := c.Set(ctx, k, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"count:x", "classes:y"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%s) after Clear should miss", k)
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if err := c.Set(ctx, "count:k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "count:k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("count:k")); !os.IsNotExist(err) {
		t.Errorf("expired entry should be removed, stat err = %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	path := c.path("count:k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "count:k"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v, want miss", hit, err)
	}
}

func TestFileCacheUsage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, k := range []string{"count:a", "count:b", "api:classes:c"} {
		if err := c.Set(ctx, k, []byte(`{"count":256}`), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	usage, err := c.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	want := map[string]int{"count": 2, "classes": 1, "other": 0}
	for kind, n := range want {
		if got := usage[kind].Entries; got != n {
			t.Errorf("Usage()[%s].Entries = %d, want %d", kind, got, n)
		}
	}
	if usage["count"].Bytes == 0 {
		t.Error("Usage()[count].Bytes = 0, want > 0")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("Clear removed a foreign file: %v", err)
	}
	if usage, _ = c.Usage(ctx); usage["count"].Entries != 0 {
		t.Errorf("Usage after Clear = %+v, want empty", usage)
	}
}

func TestFileCacheEmptyDir(t *testing.T) {
	if _, err := NewFileCache(""); err == nil {
		t.Error("NewFileCache(\"\") should fail")
	}
}

func TestBadgerCache(t *testing.T) {
	c, err := NewBadgerCache("")
	if err != nil {
		t.Fatalf("NewBadgerCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestBadgerCacheOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewBadgerCache(dir)
	if err != nil {
		t.Fatalf("NewBadgerCache: %v", err)
	}
	if err := c.Set(ctx, "classes:k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c, err = NewBadgerCache(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	got, hit, err := c.Get(ctx, "classes:k")
	if err != nil || !hit || string(got) != "v" {
		t.Errorf("Get after reopen = %q, %v, %v, want \"v\", true, nil", got, hit, err)
	}
}
