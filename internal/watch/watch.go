// Package watch supervises the dev server, restarting it when source
// files change.
//
// A recursive fsnotify watcher feeds change events through a
// doublestar pattern filter (default **/*.py) so edits to lock files,
// caches, or editor droppings do not bounce the server. Restarts are
// debounced; the old process gets SIGTERM and a grace period before
// being killed.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// Supervisor runs a command and restarts it on matching file changes.
type Supervisor struct {
	runner execx.Runner

	// Cmd is the supervised server invocation.
	Cmd execx.Cmd

	// Dir is the directory tree to watch.
	Dir string

	// Pattern is a doublestar pattern matched against paths relative
	// to Dir.
	Pattern string

	// Debounce coalesces bursts of change events into one restart.
	Debounce time.Duration

	// Grace is how long a signalled process gets before being killed.
	Grace time.Duration
}

// NewSupervisor creates a Supervisor with sensible dev-loop timings.
func NewSupervisor(runner execx.Runner, cmd execx.Cmd, dir, pattern string) *Supervisor {
	return &Supervisor{
		runner:   runner,
		Cmd:      cmd,
		Dir:      dir,
		Pattern:  pattern,
		Debounce: 300 * time.Millisecond,
		Grace:    5 * time.Second,
	}
}

// Matches reports whether a changed path should trigger a restart.
func (s *Supervisor) Matches(path string) bool {
	rel, err := filepath.Rel(s.Dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(s.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Run supervises the command until ctx is cancelled.
// Cancellation stops the child and returns nil; it is the normal way
// to leave watch mode.
func (s *Supervisor) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()

	if err := addRecursive(watcher, s.Dir); err != nil {
		return err
	}

	changes := make(chan string, 1)
	go s.forwardEvents(watcher, changes, logger)

	for {
		handle, err := s.runner.Start(ctx, s.Cmd)
		if err != nil {
			return err
		}
		logger.Info("server started", "cmd", s.Cmd.String(), "watch", s.Pattern)

		exited := make(chan error, 1)
		go func() { exited <- handle.Wait() }()

		select {
		case <-ctx.Done():
			s.stop(handle, exited)
			return nil

		case err := <-exited:
			// The server fell over on its own; hold for the next edit
			// instead of hot-looping a crashing process.
			logger.Warn("server exited, waiting for changes", "err", err)
			select {
			case <-ctx.Done():
				return nil
			case path := <-changes:
				s.settle(ctx, changes)
				logger.Info("change detected, restarting", "path", path)
			}

		case path := <-changes:
			s.settle(ctx, changes)
			logger.Info("change detected, restarting", "path", path)
			s.stop(handle, exited)
		}
	}
}

// forwardEvents filters raw watcher events into restart triggers and
// extends the watch to newly created directories.
func (s *Supervisor) forwardEvents(watcher *fsnotify.Watcher, changes chan<- string, logger *slog.Logger) {
	relevant := fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			if event.Op&relevant == 0 || !s.Matches(event.Name) {
				continue
			}
			select {
			case changes <- event.Name:
			default: // a restart is already pending
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("watcher error", "err", err)
		}
	}
}

// settle drains follow-up events for the debounce window.
func (s *Supervisor) settle(ctx context.Context, changes <-chan string) {
	timer := time.NewTimer(s.Debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(s.Debounce)
		case <-timer.C:
			return
		}
	}
}

// stop terminates the child: SIGTERM, then kill after the grace period.
func (s *Supervisor) stop(handle execx.Handle, exited <-chan error) {
	_ = handle.Signal(syscall.SIGTERM)
	select {
	case <-exited:
	case <-time.After(s.Grace):
		_ = handle.Kill()
		<-exited
	}
}

// addRecursive watches dir and every directory below it.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, "walking %s", path)
		}
		if !d.IsDir() {
			return nil
		}
		// Dependency trees and VCS metadata churn constantly and never
		// hold watched sources.
		switch d.Name() {
		case ".git", ".venv", "node_modules", "__pycache__":
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}
		return nil
	})
}
