package catalog

import (
	"context"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seistack/seiscat/internal/metrics"
	"github.com/seistack/seiscat/internal/workpool"
	"github.com/seistack/seiscat/pkg/criteria"
	"github.com/seistack/seiscat/pkg/pattern"
)

var tracer = otel.Tracer("github.com/seistack/seiscat/pkg/catalog")

var _ criteria.Subject = (*Record)(nil)

// Stage names the pipeline stage a catalog last completed.
type Stage string

const (
	StageUninitialized Stage = "uninitialized"
	StageMatched       Stage = "matched"
	StageFiltered      Stage = "filtered"
	StageGrouped       Stage = "grouped"
	StageOrganized     Stage = "organized"
)

type customField struct {
	token    string
	fragment string
}

type options struct {
	logger       *zap.Logger
	metrics      *metrics.Recorder
	extraFields  []pattern.Field
	customFields []customField
	overwrite    bool
	deriveTime   bool
	checkOptions pattern.CheckOptions
}

// Option configures a Catalog.
type Option func(*options)

// WithLogger sets the logger the catalog and its scanner share.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics wires a metrics recorder into the pipeline.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithExtraFields appends a pre-built vocabulary, for example
// pattern.RespFields(), after the built-ins.
func WithExtraFields(fields []pattern.Field) Option {
	return func(o *options) { o.extraFields = append(o.extraFields, fields...) }
}

// WithField registers a custom template field. Options apply in call order,
// so field registration order is the caller's.
func WithField(token, fragment string) Option {
	return func(o *options) {
		o.customFields = append(o.customFields, customField{token: token, fragment: fragment})
	}
}

// WithFieldOverwrite lets WithField replace existing fields instead of
// keeping the original registration.
func WithFieldOverwrite() Option {
	return func(o *options) { o.overwrite = true }
}

// WithTimeDerivation toggles timestamp derivation. On by default; response
// catalogs switch it off.
func WithTimeDerivation(enabled bool) Option {
	return func(o *options) { o.deriveTime = enabled }
}

// WithCheckOptions replaces the template validation profile. Defaults to
// pattern.DefaultCheckOptions.
func WithCheckOptions(opts pattern.CheckOptions) Option {
	return func(o *options) { o.checkOptions = opts }
}

// Catalog drives the match, filter, group and organize pipeline for one
// root and template.
type Catalog struct {
	root     string
	registry *pattern.Registry
	compiled *pattern.Compiled
	scanner  *Scanner

	logger  *zap.Logger
	metrics *metrics.Recorder

	records     []*Record
	filtered    []*Record
	matched     bool
	filteredRun bool
	stage       Stage
}

// New validates the template against root and prepares an empty catalog.
// Template misconfiguration fails construction; a missing root does not,
// matching it will simply find nothing.
func New(root, template string, opts ...Option) (*Catalog, error) {
	o := &options{
		logger:       zap.NewNop(),
		deriveTime:   true,
		checkOptions: pattern.DefaultCheckOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}

	base := pattern.DefaultFields()
	base = append(base, o.extraFields...)
	reg := pattern.NewRegistry(base, o.logger)
	for _, f := range o.customFields {
		if err := reg.Add(f.token, f.fragment, o.overwrite); err != nil {
			return nil, err
		}
	}

	compiled, err := pattern.Check(root, template, reg, o.checkOptions)
	if err != nil {
		return nil, err
	}

	scanner := NewScanner(root, compiled, o.deriveTime)
	scanner.SetLogger(o.logger)
	scanner.SetMetrics(o.metrics)

	return &Catalog{
		root:     filepath.Clean(root),
		registry: reg,
		compiled: compiled,
		scanner:  scanner,
		logger:   o.logger,
		metrics:  o.metrics,
		stage:    StageUninitialized,
	}, nil
}

// Root returns the cleaned catalog root.
func (c *Catalog) Root() string { return c.root }

// Pattern returns the compiled template.
func (c *Catalog) Pattern() *pattern.Compiled { return c.compiled }

// Registry returns the catalog's field vocabulary.
func (c *Catalog) Registry() *pattern.Registry { return c.registry }

// Stage reports the pipeline stage the catalog last completed.
func (c *Catalog) Stage() Stage { return c.stage }

// Records returns all matched records, nil before Match.
func (c *Catalog) Records() []*Record { return c.records }

// Filtered returns the records passing the last Filter, nil before one ran.
func (c *Catalog) Filtered() []*Record {
	if !c.filteredRun {
		return nil
	}
	return c.filtered
}

// Match walks the root and extracts all matching records, resetting any
// downstream filter state from earlier runs. workers bounds the fan-out;
// values below 2 match sequentially.
func (c *Catalog) Match(ctx context.Context, workers int) []*Record {
	ctx, span := tracer.Start(ctx, "catalog.match")
	defer span.End()

	c.records = c.scanner.MatchFiles(ctx, nil, workers)
	c.filtered = nil
	c.filteredRun = false
	c.matched = true
	c.stage = StageMatched

	span.SetAttributes(attribute.Int("catalog.records", len(c.records)))
	return c.records
}

// Filter keeps the records admitted by the criteria set, preserving match
// order. Filtering before Match warns and returns nil with the state
// untouched; malformed criteria return an error the same way.
func (c *Catalog) Filter(ctx context.Context, set criteria.Set, workers int) ([]*Record, error) {
	if !c.matched {
		c.logger.Warn("filter requested before match, nothing to do")
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "catalog.filter")
	defer span.End()

	f, err := criteria.NewFilter(set, c.logger)
	if err != nil {
		return nil, err
	}
	f.Describe()

	start := time.Now()
	admitted := make([]bool, len(c.records))
	workpool.Run(ctx, len(c.records), workers, func(i int) {
		admitted[i] = f.Admit(c.records[i])
	})

	passed := make([]*Record, 0, len(c.records))
	for i, ok := range admitted {
		if ok {
			passed = append(passed, c.records[i])
		}
	}

	c.filtered = passed
	c.filteredRun = true
	c.stage = StageFiltered

	c.logger.Info("filter finished",
		zap.Int("records", len(c.records)),
		zap.Int("passed", len(passed)),
		zap.Duration("elapsed", time.Since(start)))
	c.metrics.RecordFilter(len(passed), len(c.records)-len(passed), time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("catalog.records", len(c.records)),
		attribute.Int("catalog.passed", len(passed)))
	return passed, nil
}

// Group partitions records by labels, the filtered set when useFiltered.
// Grouping before its source stage has run warns and returns nil, as does
// label misconfiguration.
func (c *Catalog) Group(ctx context.Context, labels, sortLabels []string, useFiltered bool) *Grouping {
	if !c.matched {
		c.logger.Warn("group requested before match, nothing to do")
		return nil
	}
	recs, ok := c.pick(useFiltered)
	if !ok {
		c.logger.Warn("group requested before filter, nothing to do")
		return nil
	}

	_, span := tracer.Start(ctx, "catalog.group")
	defer span.End()

	g, err := GroupBy(recs, labels, sortLabels, c.logger)
	if err != nil {
		c.logger.Error("group failed", zap.Error(err))
		return nil
	}
	c.stage = StageGrouped

	span.SetAttributes(attribute.Int("catalog.groups", len(g.Groups)))
	return g
}

// Organize nests records level by level following order. Organizing before
// its source stage has run warns and returns nil, as does an empty order.
func (c *Catalog) Organize(ctx context.Context, order []string, mode OutputMode, useFiltered bool) VirtualArray {
	if !c.matched {
		c.logger.Warn("organize requested before match, nothing to do")
		return nil
	}
	recs, ok := c.pick(useFiltered)
	if !ok {
		c.logger.Warn("organize requested before filter, nothing to do")
		return nil
	}

	_, span := tracer.Start(ctx, "catalog.organize")
	defer span.End()

	va, err := OrganizeBy(recs, order, mode, c.logger)
	if err != nil {
		c.logger.Error("organize failed", zap.Error(err))
		return nil
	}
	c.stage = StageOrganized

	span.SetAttributes(attribute.Int("catalog.top_level_keys", len(va)))
	return va
}

// Values returns the value at field for every record holding one, from the
// filtered set when useFiltered. Calling before the source stage has run
// warns and returns nil.
func (c *Catalog) Values(field string, useFiltered bool) []any {
	if !c.matched {
		c.logger.Warn("values requested before match, nothing to do")
		return nil
	}
	recs, ok := c.pick(useFiltered)
	if !ok {
		c.logger.Warn("values requested before filter, nothing to do")
		return nil
	}
	var out []any
	for _, r := range recs {
		if v, ok := r.Lookup(field); ok {
			out = append(out, v)
		}
	}
	return out
}

// Stations returns the distinct station values in first-seen order.
func (c *Catalog) Stations(useFiltered bool) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range c.Values("station", useFiltered) {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Times returns the derived timestamp of every record that has one.
func (c *Catalog) Times(useFiltered bool) []time.Time {
	if !c.matched {
		c.logger.Warn("times requested before match, nothing to do")
		return nil
	}
	recs, ok := c.pick(useFiltered)
	if !ok {
		c.logger.Warn("times requested before filter, nothing to do")
		return nil
	}
	var out []time.Time
	for _, r := range recs {
		if r.HasTime {
			out = append(out, r.Time)
		}
	}
	return out
}

// pick selects the stage input. ok is false when the filtered set is
// requested before a filter has run.
func (c *Catalog) pick(useFiltered bool) ([]*Record, bool) {
	if useFiltered && !c.filteredRun {
		return nil, false
	}
	if useFiltered {
		return c.filtered, true
	}
	return c.records, true
}
