// Package promptpack resolves a (slot, fragment) reference across a
// layered stack of on-disk trees — shared templates, the system pack, and
// client/environment overlays — and renders the winning fragment with
// Jinja, returning a lineage record of every file actually consulted.
package promptpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/pkg/logger"
)

// layerTree watches one filesystem root (a shared-templates tree, the
// system pack, or one client/env overlay) and caches its file contents in
// memory, reloading on change. Modeled on the upstream workspace loader's
// scan-then-watch-with-debounce lifecycle, generalized from a flat set of
// convention files to an arbitrary nested tree keyed by relative path.
type layerTree struct {
	mu      sync.RWMutex
	root    string
	layer   entity.Layer
	files   map[string]string // relative path -> content
	watcher *fsnotify.Watcher
	closeCh chan struct{}
	closed  bool
}

func newLayerTree(root string, layer entity.Layer) *layerTree {
	if root == "" {
		return nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		logger.WarnX("promptpack", "failed to resolve layer root %q: %v", root, err)
		return nil
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		logger.DebugX("promptpack", "layer root %q does not exist, skipping", absRoot)
		return nil
	}

	lt := &layerTree{root: absRoot, layer: layer, files: make(map[string]string), closeCh: make(chan struct{})}
	lt.reload()
	if err := lt.startWatcher(); err != nil {
		logger.WarnX("promptpack", "failed to start watcher for %q: %v, content loaded statically", absRoot, err)
	}
	return lt
}

func (lt *layerTree) get(relPath string) (string, bool) {
	if lt == nil {
		return "", false
	}
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	content, ok := lt.files[relPath]
	return content, ok
}

func (lt *layerTree) close() {
	if lt == nil {
		return
	}
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.closed {
		return
	}
	lt.closed = true
	close(lt.closeCh)
	if lt.watcher != nil {
		lt.watcher.Close()
	}
}

func (lt *layerTree) reload() {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	newFiles := make(map[string]string)
	_ = filepath.Walk(lt.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".md") && !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		rel, err := filepath.Rel(lt.root, path)
		if err != nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		newFiles[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	lt.files = newFiles
	logger.DebugX("promptpack", "loaded %d files from layer %s (%s)", len(newFiles), lt.layer, lt.root)
}

func (lt *layerTree) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	lt.watcher = watcher
	if err := watcher.Add(lt.root); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %q: %w", lt.root, err)
	}
	_ = filepath.Walk(lt.root, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.IsDir() {
			_ = watcher.Add(path)
		}
		return nil
	})
	go lt.watchLoop()
	return nil
}

func (lt *layerTree) watchLoop() {
	var debounce *time.Timer
	reload := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(500*time.Millisecond, lt.reload)
	}
	for {
		select {
		case event, ok := <-lt.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				reload()
			}
		case _, ok := <-lt.watcher.Errors:
			if !ok {
				return
			}
		case <-lt.closeCh:
			return
		}
	}
}
