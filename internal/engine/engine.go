// Package engine orchestrates discovery and extraction across a
// directory tree and assembles the consolidated table.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marenkov/sheaf/internal/extract"
	"github.com/marenkov/sheaf/internal/scan"
)

// ErrNoFiles is returned by Run when discovery finds zero spreadsheet
// files under the root.
var ErrNoFiles = errors.New("no spreadsheet files found")

// ErrNoData is returned by Run when files were found but none yielded a
// single usable key.
var ErrNoData = errors.New("no usable key/value data found")

// SourceColumn is the header of the first output column, which carries
// each file's root-relative path.
const SourceColumn = "Source File"

// Table is the assembled consolidated grid: a header row followed by
// one row per processed file. It is built once, after all files are
// read, and handed to the Exporter whole.
type Table struct {
	Header []string
	Rows   [][]string
}

// Exporter writes an assembled table to the output location. The xlsx
// implementation lives in internal/export; tests substitute a capture
// fake.
type Exporter interface {
	Export(ctx context.Context, table *Table, outputPath string) error
}

// RecordCache is an optional read-through cache for extracted records,
// keyed by path plus file metadata so stale entries miss.
type RecordCache interface {
	Get(ctx context.Context, path string, mtime time.Time, size int64) (extract.Record, bool, error)
	Put(ctx context.Context, path string, mtime time.Time, size int64, rec extract.Record) error
}

// Summary is a derived, read-only snapshot of a completed run. Calling
// Summary on an engine with no processed files yields zero values; that
// is not an error.
type Summary struct {
	FileCount int
	KeyCount  int
	FileNames []string
}

// Config holds the dependencies for one consolidation run.
type Config struct {
	Root       string       // directory to scan; must exist and be a directory
	Exporter   Exporter     // required
	OnProgress ProgressFunc // optional milestone callback
	Logger     io.Writer    // operator log stream; defaults to io.Discard
	Cache      RecordCache  // optional extraction cache
}

// Engine owns the accumulated per-file records and the global key
// universe for the duration of one consolidation run. One engine, one
// run: concurrent Run calls on the same instance are not supported.
type Engine struct {
	root       string
	exporter   Exporter
	onProgress ProgressFunc
	logger     io.Writer
	cache      RecordCache

	// mu guards keys so registration stays safe if extraction is ever
	// parallelized; record and order writes happen only on the Run
	// goroutine.
	mu      sync.Mutex
	keys    map[string]struct{}
	order   []string // relative paths in processed order
	records map[string]extract.Record
}

// New validates the root path and constructs an engine. A missing or
// non-directory root is a configuration error raised here, before any
// scanning, not a per-file failure.
func New(cfg Config) (*Engine, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root path %q: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path %q is not a directory", cfg.Root)
	}
	if cfg.Exporter == nil {
		return nil, errors.New("engine: exporter is required")
	}

	// Discovery yields absolute paths, so the root must be absolute too
	// or relative roots like "." would break row identifiers.
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root path %q: %w", cfg.Root, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = io.Discard
	}

	return &Engine{
		root:       root,
		exporter:   cfg.Exporter,
		onProgress: cfg.OnProgress,
		logger:     logger,
		cache:      cfg.Cache,
		keys:       make(map[string]struct{}),
		records:    make(map[string]extract.Record),
	}, nil
}

// Run executes one consolidation: discover, extract every file,
// assemble the table, and export it to outputPath. It returns
// ErrNoFiles or ErrNoData for the two expected empty-input failures, a
// wrapped export error if writing fails, and nil on success. A
// cancelled context stops the run between files with ctx.Err. Per-file
// extraction failures are logged and absorbed as empty records; they
// never abort the run.
func (e *Engine) Run(ctx context.Context, outputPath string) error {
	e.report(Progress{Stage: StageInitializing})
	e.report(Progress{Stage: StageScanning})

	files, err := scan.Discover(e.root)
	if err != nil {
		return fmt.Errorf("scanning %q: %w", e.root, err)
	}
	fmt.Fprintf(e.logger, "found %d spreadsheet files in %s\n", len(files), e.root)
	if len(files) == 0 {
		return ErrNoFiles
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := e.relPath(file)
		e.report(Progress{Stage: StageReading, FileIndex: i + 1, FileTotal: len(files), File: rel})
		fmt.Fprintf(e.logger, "reading file: %s\n", rel)

		rec, err := e.extract(ctx, file)
		if err != nil {
			fmt.Fprintf(e.logger, "error reading %s: %v\n", rel, err)
			rec = extract.Empty()
		}

		e.register(rec.Keys)
		e.order = append(e.order, rel)
		e.records[rel] = rec
	}

	e.report(Progress{Stage: StageAggregating, FileTotal: len(files)})
	if len(e.keys) == 0 {
		fmt.Fprintln(e.logger, "no valid keys found")
		return ErrNoData
	}

	table := e.buildTable()

	e.report(Progress{Stage: StageSaving, FileTotal: len(files)})
	if err := e.exporter.Export(ctx, table, outputPath); err != nil {
		fmt.Fprintf(e.logger, "save failed: %v\n", err)
		return fmt.Errorf("exporting to %q: %w", outputPath, err)
	}

	e.report(Progress{Stage: StageDone, FileTotal: len(files)})
	return nil
}

// Summary returns aggregate counts from the engine's accumulated state.
func (e *Engine) Summary() Summary {
	names := make([]string, len(e.order))
	copy(names, e.order)
	return Summary{
		FileCount: len(e.records),
		KeyCount:  len(e.keys),
		FileNames: names,
	}
}

// extract reads one file's record, going through the cache when one is
// configured. Cache failures degrade to a direct read; they are logged,
// never fatal.
func (e *Engine) extract(ctx context.Context, path string) (extract.Record, error) {
	if e.cache == nil {
		return extract.File(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return extract.Empty(), fmt.Errorf("stat: %w", err)
	}

	if rec, ok, err := e.cache.Get(ctx, path, info.ModTime(), info.Size()); err != nil {
		fmt.Fprintf(e.logger, "cache read for %s: %v\n", path, err)
	} else if ok {
		return rec, nil
	}

	rec, err := extract.File(path)
	if err != nil {
		return rec, err
	}
	if err := e.cache.Put(ctx, path, info.ModTime(), info.Size(), rec); err != nil {
		fmt.Fprintf(e.logger, "cache write for %s: %v\n", path, err)
	}
	return rec, nil
}

// register merges a record's keys into the global key universe.
func (e *Engine) register(keys []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, k := range keys {
		e.keys[k] = struct{}{}
	}
}

// sortedKeys returns the key universe in lexicographic (case-sensitive)
// order, which is the output column order.
func (e *Engine) sortedKeys() []string {
	keys := make([]string, 0, len(e.keys))
	for k := range e.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildTable assembles the header plus one row per processed file.
// Cells for keys a file never contained are empty strings, never
// absent, so the grid is dense.
func (e *Engine) buildTable() *Table {
	keys := e.sortedKeys()

	header := make([]string, 0, len(keys)+1)
	header = append(header, SourceColumn)
	header = append(header, keys...)

	rows := make([][]string, 0, len(e.order))
	for _, rel := range e.order {
		rec := e.records[rel]
		row := make([]string, 0, len(keys)+1)
		row = append(row, rel)
		for _, k := range keys {
			row = append(row, rec.Values[k])
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}
}

// relPath expresses an absolute file location relative to the scan
// root, falling back to the absolute path for files that are somehow
// outside it.
func (e *Engine) relPath(path string) string {
	rel, err := filepath.Rel(e.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func (e *Engine) report(p Progress) {
	if e.onProgress != nil {
		e.onProgress(p)
	}
}
