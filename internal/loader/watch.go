// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package loader

import (
	"context"
	"expvar"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var errorCount = expvar.NewInt("program_watcher_error_count")

// Watch reloads programs under the program path as they are created or
// written, and unloads them when removed or renamed away.  It returns when
// ctx is cancelled.  The ready channel, if not nil, is closed once the
// watch is in place.
func (l *Loader) Watch(ctx context.Context, ready chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer func() {
		if err := w.Close(); err != nil {
			glog.Warning(err)
		}
	}()
	if err := w.Add(l.programPath); err != nil {
		return errors.Wrapf(err, "failed to watch %q", l.programPath)
	}
	glog.Infof("Watching %s for program changes", l.programPath)
	if ready != nil {
		close(ready)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errorCount.Add(1)
			glog.Errorf("fsnotify error: %s", err)
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			glog.V(2).Infof("watcher event %v", e)
			switch {
			case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if fi, err := os.Stat(e.Name); err != nil || fi.IsDir() {
					continue
				}
				if err := l.Load(ctx, e.Name); err != nil {
					glog.Warning(err)
				}
			case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				l.Unload(e.Name)
			}
		}
	}
}
