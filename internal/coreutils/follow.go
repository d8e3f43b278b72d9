// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/bindlebinaries/securecoreutils/internal/widget"

	"github.com/fsnotify/fsnotify"
)

// follow copies data appended to f until ctx is done.
//
// Filesystem events on path only wake the loop; data is always read from f,
// the descriptor opened after validation, never by reopening path. The
// ticker catches growth the watcher cannot report.
func (c *tailCommand) follow(ctx context.Context, inv *widget.Invocation, path string, f *os.File) error {
	ticker := time.NewTicker(c.suite.cfg.Tail.FollowInterval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w, err := fsnotify.NewWatcher(); err != nil {
		inv.Logger.Debug("file watcher unavailable, polling", "error", err)
	} else {
		defer w.Close()
		if err := w.Add(path); err != nil {
			inv.Logger.Debug("cannot watch file, polling", "path", quote(path), "error", err)
		} else {
			events, errs = w.Events, w.Errors
		}
	}

	for {
		if _, err := io.Copy(inv.Stdout, f); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				inv.Logger.Info("followed file was moved or removed", "path", quote(path))
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			inv.Logger.Debug("file watcher error", "error", err)
		case <-ticker.C:
		}
	}
}
