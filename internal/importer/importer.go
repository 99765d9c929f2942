// Package importer backfills the database from legacy per-day text logs.
// Each file is named <kind>_<dayT0>.txt and holds "<unix> <value>" lines,
// except blog files whose whole content is the day's post.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/prolifichq/prolific/internal/adapters/turso"
)

var logNameRE = regexp.MustCompile(`^(window|keyfreq|notes|blog)_(\d+)\.txt$`)

// Store is the persistence surface the importer needs.
type Store interface {
	NeedsImport(ctx context.Context, path string, mtime, size int64, force bool) (bool, error)
	MarkImported(ctx context.Context, path string, mtime, size int64) error
	ReplaceWindowRows(ctx context.Context, path string, rows []turso.TextRow) error
	ReplaceKeyfreqRows(ctx context.Context, path string, rows []turso.CountRow) error
	ReplaceNoteRows(ctx context.Context, path string, rows []turso.TextRow) error
	ReplaceBlog(ctx context.Context, path string, dayT0 int64, post string) error
}

// Metrics receives import telemetry. Pass nil to New to disable.
type Metrics interface {
	RowsImported(ctx context.Context, kind string, n int64)
	ImportDuration(ctx context.Context, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RowsImported(context.Context, string, int64)    {}
func (nopMetrics) ImportDuration(context.Context, time.Duration) {}

// Summary reports what one backfill pass did.
type Summary struct {
	FilesSeen     int
	FilesImported int
	RowsInserted  int
	RowsMalformed int
}

// Importer scans a log directory and replays changed files into the store.
type Importer struct {
	logDir  string
	store   Store
	metrics Metrics
}

func New(logDir string, store Store, metrics Metrics) *Importer {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Importer{logDir: logDir, store: store, metrics: metrics}
}

type fileRecord struct {
	kind  string
	dayT0 int64
	path  string
}

// Run imports every legacy log file that changed since the last pass.
// force re-imports everything. Replacement is per file, so a re-import
// never duplicates rows.
func (imp *Importer) Run(ctx context.Context, force bool) (Summary, error) {
	started := time.Now()
	defer func() { imp.metrics.ImportDuration(ctx, time.Since(started)) }()

	var summary Summary
	records, err := imp.listFiles()
	if err != nil {
		return summary, err
	}

	for _, rec := range records {
		summary.FilesSeen++

		info, err := os.Stat(rec.path)
		if err != nil {
			return summary, fmt.Errorf("stat %s: %w", rec.path, err)
		}
		mtime := info.ModTime().Unix()
		size := info.Size()

		need, err := imp.store.NeedsImport(ctx, rec.path, mtime, size, force)
		if err != nil {
			return summary, err
		}
		if !need {
			continue
		}

		inserted, malformed, err := imp.importFile(ctx, rec)
		if err != nil {
			return summary, err
		}
		if err := imp.store.MarkImported(ctx, rec.path, mtime, size); err != nil {
			return summary, err
		}

		summary.FilesImported++
		summary.RowsInserted += inserted
		summary.RowsMalformed += malformed
		imp.metrics.RowsImported(ctx, rec.kind, int64(inserted))
	}
	return summary, nil
}

func (imp *Importer) listFiles() ([]fileRecord, error) {
	entries, err := os.ReadDir(imp.logDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading log dir %s: %w", imp.logDir, err)
	}

	var records []fileRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := logNameRE.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		dayT0, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		records = append(records, fileRecord{
			kind:  m[1],
			dayT0: dayT0,
			path:  filepath.Join(imp.logDir, entry.Name()),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].path < records[j].path })
	return records, nil
}

func (imp *Importer) importFile(ctx context.Context, rec fileRecord) (inserted, malformed int, err error) {
	data, err := os.ReadFile(rec.path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", rec.path, err)
	}

	switch rec.kind {
	case "blog":
		if err := imp.store.ReplaceBlog(ctx, rec.path, rec.dayT0, string(data)); err != nil {
			return 0, 0, err
		}
		return 1, 0, nil

	case "keyfreq":
		rows, malformed := parseCountLines(string(data), rec.dayT0)
		if err := imp.store.ReplaceKeyfreqRows(ctx, rec.path, rows); err != nil {
			return 0, malformed, err
		}
		return len(rows), malformed, nil

	case "window":
		rows, malformed := parseTextLines(string(data), rec.dayT0)
		if err := imp.store.ReplaceWindowRows(ctx, rec.path, rows); err != nil {
			return 0, malformed, err
		}
		return len(rows), malformed, nil

	case "notes":
		rows, malformed := parseTextLines(string(data), rec.dayT0)
		if err := imp.store.ReplaceNoteRows(ctx, rec.path, rows); err != nil {
			return 0, malformed, err
		}
		return len(rows), malformed, nil
	}
	return 0, 0, nil
}
