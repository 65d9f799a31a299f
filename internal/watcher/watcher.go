// Package watcher reports changes to the Markdown files of a vault.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event kinds passed to EventCallback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// reconcileDelay debounces the directory rescan that follows renames.
const reconcileDelay = 200 * time.Millisecond

// EventCallback is called for every observed change to a .md file.
// kind is one of Created, Updated, Deleted; path is relative to the vault
// root and slash separated.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the vault root and reports .md file
// changes until ctx is cancelled.
//
// New directories created at runtime are automatically added to the watch
// list and the files already inside them are reported as created. Rename
// events, and removals of anything other than a note, trigger a rescan that
// reports vanished files as deleted and unseen ones as created.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	if cb == nil {
		cb = func(string, string) {}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	known, err := scan(root)
	if err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root), slog.Int("files", len(known)))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	emit := func(kind, rel string) {
		switch kind {
		case Deleted:
			delete(known, rel)
		default:
			known[rel] = struct{}{}
		}
		logger.Debug("watcher: change", slog.String("path", rel), slog.String("op", kind))
		cb(kind, rel)
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(root, known, logger, emit)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					reportNewDir(root, absPath, known, emit)
					continue
				}
			}

			if !strings.HasSuffix(absPath, ".md") {
				// A moved or removed directory takes its notes with it
				// without per-file events.
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					scheduleReconcile()
				}
				continue
			}
			rel, ok := relPath(root, absPath)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind := Updated
				if _, seen := known[rel]; !seen {
					kind = Created
				}
				emit(kind, rel)

			case ev.Op&fsnotify.Remove != 0:
				emit(Deleted, rel)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; the new path
				// arrives as a Create if it stays inside a watched dir.
				emit(Deleted, rel)
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile rescans the vault and reports the difference to known.
func reconcile(root string, known map[string]struct{}, logger *slog.Logger, emit func(kind, rel string)) {
	disk, err := scan(root)
	if err != nil {
		logger.Warn("reconcile: scan failed", slog.String("error", err.Error()))
		return
	}
	for rel := range known {
		if _, ok := disk[rel]; !ok {
			emit(Deleted, rel)
		}
	}
	for rel := range disk {
		if _, ok := known[rel]; !ok {
			emit(Created, rel)
		}
	}
}

// reportNewDir reports the .md files already present in a new directory.
func reportNewDir(root, dir string, known map[string]struct{}, emit func(kind, rel string)) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if rel, ok := relPath(root, path); ok {
			if _, seen := known[rel]; !seen {
				emit(Created, rel)
			}
		}
		return nil
	})
}

// scan lists the .md files under root.
func scan(root string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		if rel, ok := relPath(root, path); ok {
			out[rel] = struct{}{}
		}
		return nil
	})
	return out, err
}

func relPath(root, abs string) (string, bool) {
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
