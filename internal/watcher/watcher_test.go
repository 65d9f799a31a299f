package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, path string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+path)
	r.mu.Unlock()
}

func (r *recorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.events, event)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func startWatcher(t *testing.T, vaultDir string) *recorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &recorder{}
	go Watch(ctx, vaultDir, logger, rec.record)
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestWatcher_NewFile(t *testing.T) {
	vaultDir := t.TempDir()
	rec := startWatcher(t, vaultDir)

	_ = os.WriteFile(filepath.Join(vaultDir, "new.md"), []byte("# New"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:new.md")
	}, "expected created:new.md callback")
}

func TestWatcher_UpdateExisting(t *testing.T) {
	vaultDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(vaultDir, "old.md"), []byte("v1"), 0o644)
	rec := startWatcher(t, vaultDir)

	_ = os.WriteFile(filepath.Join(vaultDir, "old.md"), []byte("v2"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("updated:old.md")
	}, "expected updated:old.md callback")
	if rec.has("created:old.md") {
		t.Error("existing file reported as created")
	}
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	vaultDir := t.TempDir()
	rec := startWatcher(t, vaultDir)

	_ = os.WriteFile(filepath.Join(vaultDir, "image.png"), []byte("png"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "marker.md"), []byte("x"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:marker.md")
	}, "expected created:marker.md callback")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if e == "created:image.png" || e == "updated:image.png" {
			t.Errorf("non-markdown event %q", e)
		}
	}
}

func TestWatcher_NewDirWatched(t *testing.T) {
	vaultDir := t.TempDir()
	rec := startWatcher(t, vaultDir)

	subDir := filepath.Join(vaultDir, "subdir")
	_ = os.MkdirAll(subDir, 0o755)
	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(subDir, "deep.md"), []byte("# Deep"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:subdir/deep.md")
	}, "file in new subdir not reported")
}

func TestWatcher_Delete(t *testing.T) {
	vaultDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(vaultDir, "del.md"), []byte("# Delete Me"), 0o644)
	rec := startWatcher(t, vaultDir)

	_ = os.Remove(filepath.Join(vaultDir, "del.md"))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:del.md")
	}, "expected deleted:del.md callback")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	vaultDir := t.TempDir()
	_ = os.WriteFile(filepath.Join(vaultDir, "old.md"), []byte("# Rename"), 0o644)
	rec := startWatcher(t, vaultDir)

	_ = os.Rename(filepath.Join(vaultDir, "old.md"), filepath.Join(vaultDir, "renamed.md"))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:old.md") && rec.has("created:renamed.md")
	}, "rename should report old path deleted and new path created")
}

func TestWatch_MissingRoot(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), logger, nil)
	if err == nil {
		t.Error("expected error for missing root")
	}
}

func TestWatcher_DirRenameReportsNotes(t *testing.T) {
	vaultDir := t.TempDir()
	_ = os.MkdirAll(filepath.Join(vaultDir, "drafts"), 0o755)
	_ = os.WriteFile(filepath.Join(vaultDir, "drafts", "a.md"), []byte("# A"), 0o644)
	archive := filepath.Join(t.TempDir(), "archive")
	rec := startWatcher(t, vaultDir)

	_ = os.Rename(filepath.Join(vaultDir, "drafts"), archive)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:drafts/a.md")
	}, "moving a directory out of the vault should report its notes deleted")
}

func TestWatcher_DirRenameInsideVault(t *testing.T) {
	vaultDir := t.TempDir()
	_ = os.MkdirAll(filepath.Join(vaultDir, "old"), 0o755)
	_ = os.WriteFile(filepath.Join(vaultDir, "old", "n.md"), []byte("# N"), 0o644)
	rec := startWatcher(t, vaultDir)

	_ = os.Rename(filepath.Join(vaultDir, "old"), filepath.Join(vaultDir, "new"))
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:old/n.md") && rec.has("created:new/n.md")
	}, "directory rename should report old notes deleted and new ones created")
}
