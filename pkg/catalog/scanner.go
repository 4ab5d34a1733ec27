package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seistack/seiscat/internal/metrics"
	"github.com/seistack/seiscat/internal/workpool"
	"github.com/seistack/seiscat/pkg/pattern"
)

// Scanner walks a catalog root and extracts records from paths matching a
// compiled pattern.
type Scanner struct {
	root       string
	compiled   *pattern.Compiled
	deriveTime bool
	logger     *zap.Logger
	metrics    *metrics.Recorder
}

// NewScanner creates a scanner over root for a compiled pattern. deriveTime
// controls whether matched records get calendar timestamps.
func NewScanner(root string, compiled *pattern.Compiled, deriveTime bool) *Scanner {
	return &Scanner{
		root:       filepath.Clean(root),
		compiled:   compiled,
		deriveTime: deriveTime,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for this scanner. Optional.
func (s *Scanner) SetLogger(l *zap.Logger) {
	if l != nil {
		s.logger = l
	}
}

// SetMetrics sets the metrics recorder for this scanner. Optional.
func (s *Scanner) SetMetrics(m *metrics.Recorder) {
	s.metrics = m
}

// ListFiles walks the root and returns every regular file in lexical order.
// Unreadable paths are logged and skipped; a missing root yields an empty
// list. Symlinks are not followed.
func (s *Scanner) ListFiles() []string {
	s.logger.Info("searching for files", zap.String("root", s.root))

	var files []string
	// The callback never returns an error, so neither does WalkDir.
	_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})

	s.logger.Info("walk finished",
		zap.String("root", s.root), zap.Int("files", len(files)))
	s.metrics.RecordWalk(len(files))
	return files
}

// MatchFiles extracts records from the given paths, preserving input order.
// A nil paths slice walks the root first. workers bounds the parallel
// fan-out; values below 2 match sequentially.
func (s *Scanner) MatchFiles(ctx context.Context, paths []string, workers int) []*Record {
	if paths == nil {
		paths = s.ListFiles()
	}
	start := time.Now()

	slots := make([]*Record, len(paths))
	workpool.Run(ctx, len(paths), workers, func(i int) {
		slots[i] = s.matchPath(paths[i])
	})

	records := make([]*Record, 0, len(paths))
	for _, r := range slots {
		if r != nil {
			records = append(records, r)
		}
	}

	s.logger.Info("match finished",
		zap.Int("candidates", len(paths)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)))
	s.metrics.RecordMatch(len(records), time.Since(start).Seconds())
	return records
}

// matchPath extracts one record, or nil when the path does not match. A
// record whose timestamp cannot be derived is kept, path intact, with the
// failure logged.
func (s *Scanner) matchPath(path string) *Record {
	// WalkDir joins paths without the "./" prefix the compiled pattern
	// binds for the "." root.
	if s.root == "." && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	values, ok := s.compiled.MatchPath(path)
	if !ok {
		return nil
	}
	rec := &Record{Path: path, Fields: make(map[string]any, len(values))}
	for k, v := range values {
		rec.Fields[k] = v
	}
	if s.deriveTime {
		t, err := deriveTime(values)
		if err != nil {
			s.logger.Warn("cannot derive timestamp, record kept without time",
				zap.String("path", path), zap.Error(err))
			s.metrics.RecordDeriveFailure()
		} else {
			rec.Time = t
			rec.HasTime = true
		}
	}
	return rec
}
