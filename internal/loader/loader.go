// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package loader resolves scope programs found on disk and keeps the latest
// report for each, reloading programs as they change.
package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"expvar"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
	"github.com/google/symres/internal/resolver"
	"github.com/google/symres/internal/symtab"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ProgLoads counts the number of program load events.
	ProgLoads = expvar.NewMap("prog_loads_total")
	// ProgLoadErrors counts the number of program load errors.
	ProgLoadErrors = expvar.NewMap("prog_load_errors_total")
	// ReportCacheHits counts loads answered from the report cache.
	ReportCacheHits = expvar.NewInt("report_cache_hits_total")
)

const (
	fileExt = ".scope"

	defaultCacheSize = 64
)

// Loader resolves the programs under a path.
type Loader struct {
	programPath string          // file or directory of programs
	tableOpts   []symtab.Option // options for each program's symbol table
	errorsAbort bool            // diagnostics abort LoadAll
	onLoad      func(name string, r *resolver.Report, err error)

	mu      sync.RWMutex                // guards the fields below
	cache   *lru.Cache                  // name and content hash to *resolver.Report
	reports map[string]*resolver.Report // latest report per program name
	errs    map[string]error            // latest error per program name
}

// Option configures a new program Loader.
type Option func(*Loader) error

// CacheSize sets the number of reports remembered by content.
func CacheSize(n int) Option {
	return func(l *Loader) error {
		if n <= 0 {
			return errors.Errorf("cache size must be positive, got %d", n)
		}
		l.cache = lru.New(n)
		return nil
	}
}

// TableOptions sets the options used for each program's symbol table.
func TableOptions(opts ...symtab.Option) Option {
	return func(l *Loader) error {
		l.tableOpts = append(l.tableOpts, opts...)
		return nil
	}
}

// ErrorsAbort makes LoadAll stop at the first program with diagnostics.
func ErrorsAbort() Option {
	return func(l *Loader) error {
		l.errorsAbort = true
		return nil
	}
}

// OnLoad registers a function called after every load attempt.
func OnLoad(f func(name string, r *resolver.Report, err error)) Option {
	return func(l *Loader) error {
		l.onLoad = f
		return nil
	}
}

// New creates a Loader for the programs at programPath.
func New(programPath string, opts ...Option) (*Loader, error) {
	l := &Loader{
		programPath: programPath,
		reports:     make(map[string]*resolver.Report),
		errs:        make(map[string]error),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	if l.cache == nil {
		l.cache = lru.New(defaultCacheSize)
	}
	// Reject bad table options before any program is read.
	if _, err := symtab.NewTable(l.tableOpts...); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadAll loads every program under the program path.  Diagnostics are
// stored with the report and only returned when ErrorsAbort is set.
func (l *Loader) LoadAll(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "loader.LoadAll")
	defer span.End()
	if l.programPath == "" {
		glog.V(2).Info("Programpath is empty, loading nothing")
		return nil
	}
	s, err := os.Stat(l.programPath)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %q", l.programPath)
	}
	paths := []string{l.programPath}
	if s.IsDir() {
		entries, rerr := os.ReadDir(l.programPath)
		if rerr != nil {
			return errors.Wrapf(rerr, "failed to list programs in %q", l.programPath)
		}
		paths = paths[:0]
		for _, e := range entries {
			if !e.IsDir() {
				paths = append(paths, filepath.Join(l.programPath, e.Name()))
			}
		}
	}
	for _, p := range paths {
		if err := l.Load(ctx, p); err != nil {
			if l.errorsAbort {
				return err
			}
			glog.Warning(err)
		}
	}
	return nil
}

// Load resolves the program at programPath, replacing any previous report of
// the same name.  Hidden files and files without the program extension are
// skipped.  The error is an I/O error or the program's diagnostics.
func (l *Loader) Load(ctx context.Context, programPath string) error {
	name := filepath.Base(programPath)
	if strings.HasPrefix(name, ".") {
		glog.V(2).Infof("Skipping %s because it is a hidden file.", programPath)
		return nil
	}
	if filepath.Ext(name) != fileExt {
		glog.V(2).Infof("Skipping %s due to file extension.", programPath)
		return nil
	}
	f, err := os.Open(filepath.Clean(programPath))
	if err != nil {
		ProgLoadErrors.Add(name, 1)
		return errors.Wrapf(err, "failed to read program %q", programPath)
	}
	defer func() {
		if err := f.Close(); err != nil {
			glog.Warning(err)
		}
	}()
	r, err := l.resolve(ctx, name, f)
	if r == nil {
		ProgLoadErrors.Add(name, 1)
		l.notify(name, nil, err)
		return err
	}
	l.mu.Lock()
	l.reports[name] = r
	if err != nil {
		l.errs[name] = err
	} else {
		delete(l.errs, name)
	}
	l.mu.Unlock()
	if err != nil {
		ProgLoadErrors.Add(name, 1)
		err = errors.Errorf("resolve failed for %s:\n%s", name, err)
	} else {
		ProgLoads.Add(name, 1)
		glog.Infof("Loaded program %s", name)
	}
	l.notify(name, r, err)
	return err
}

func (l *Loader) notify(name string, r *resolver.Report, err error) {
	if l.onLoad != nil {
		l.onLoad(name, r, err)
	}
}

// resolve returns the report for the program contents, from the cache when
// the same program has been resolved with identical contents before.
func (l *Loader) resolve(ctx context.Context, name string, input io.Reader) (*resolver.Report, error) {
	var buf bytes.Buffer
	hasher := sha256.New()
	if _, err := io.Copy(hasher, io.TeeReader(input, &buf)); err != nil {
		return nil, errors.Wrapf(err, "hashing failed for %q", name)
	}
	key := name + ":" + hex.EncodeToString(hasher.Sum(nil))
	l.mu.Lock()
	v, ok := l.cache.Get(key)
	l.mu.Unlock()
	if ok {
		glog.V(1).Infof("contents match, not resolving %q again", name)
		ReportCacheHits.Add(1)
		r := v.(*resolver.Report)
		return r, r.Errors.Err()
	}
	r, err := resolver.Resolve(ctx, name, &buf, l.tableOpts...)
	if r == nil {
		return nil, err
	}
	l.mu.Lock()
	l.cache.Add(key, r)
	l.mu.Unlock()
	return r, err
}

// Unload forgets the program at programPath.
func (l *Loader) Unload(programPath string) {
	name := filepath.Base(programPath)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.reports[name]; ok {
		glog.Infof("Unloaded program %s", name)
	}
	delete(l.reports, name)
	delete(l.errs, name)
}

// Report returns the latest report for the named program.
func (l *Loader) Report(name string) (*resolver.Report, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.reports[name]
	return r, ok
}

// Names returns the names of the loaded programs in sorted order.
func (l *Loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.reports))
	for name := range l.reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteStatus writes every loaded report to w, in name order.
func (l *Loader) WriteStatus(w io.Writer) error {
	for _, name := range l.Names() {
		r, ok := l.Report(name)
		if !ok {
			continue
		}
		if _, err := r.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}
