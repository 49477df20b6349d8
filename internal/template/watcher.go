// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Definitions-directory watcher: rebuilds the registry on file changes.
package template

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher rebuilds the registry when TOML definitions in a directory
// change. Registries stay immutable: each reload constructs a fresh one and
// hands it to the callback, which owns the swap.
type Watcher struct {
	dir      string
	onReload func(*Registry)
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
	ctx      context.Context
	cancel   context.CancelFunc

	mu    sync.Mutex
	dirty bool
}

// NewWatcher prepares a watcher over dir. Each reload outcome is delivered
// to onReload; editors that write in bursts are coalesced by the limiter.
func NewWatcher(dir string, onReload func(*Registry)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dir:      dir,
		onReload: onReload,
		watcher:  fsw,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. The definitions directory is watched flat; nested
// directories are ignored by the loader anyway.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.dirty = true
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next successful event still
			// triggers a reload.
		}
	}
}

func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			pending := w.dirty
			w.mu.Unlock()
			if !pending || !w.limiter.Allow() {
				continue
			}

			w.mu.Lock()
			w.dirty = false
			w.mu.Unlock()
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	reg, err := BuildRegistry(w.dir)
	if err != nil {
		// Directory-level failures keep the previous registry in place.
		return
	}
	if w.onReload != nil {
		w.onReload(reg)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
