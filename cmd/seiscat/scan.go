package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/seistack/seiscat/internal/config"
	"github.com/seistack/seiscat/internal/logging"
	"github.com/seistack/seiscat/internal/metrics"
	"github.com/seistack/seiscat/internal/telemetry"
	"github.com/seistack/seiscat/pkg/catalog"
	"github.com/seistack/seiscat/pkg/pattern"
)

var (
	scanOutput  string
	scanWorkers int
)

var scanCmd = &cobra.Command{
	Use:   "scan [catalog...]",
	Short: "Scan the configured catalogs and print their records",
	Long: `Scan walks each configured catalog root, matches files against the
catalog's template and prints the resulting records. Catalogs run
concurrently; naming catalogs on the command line restricts the scan to
those.

Examples:
  # Scan everything in ./seiscat.yaml
  seiscat scan

  # Scan one catalog from an explicit config, as YAML
  seiscat scan --config archive.yaml --output yaml day-volumes`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "json", "output format: json or yaml")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "override the per-catalog worker count")
}

// catalogReport is the printable result of scanning one catalog.
type catalogReport struct {
	Name     string           `json:"name" yaml:"name"`
	Root     string           `json:"root" yaml:"root"`
	Template string           `json:"template" yaml:"template"`
	Matched  int              `json:"matched" yaml:"matched"`
	Filtered *int             `json:"filtered,omitempty" yaml:"filtered,omitempty"`
	Records  []map[string]any `json:"records,omitempty" yaml:"records,omitempty"`
	Groups   []groupReport    `json:"groups,omitempty" yaml:"groups,omitempty"`
	Tree     map[string]any   `json:"tree,omitempty" yaml:"tree,omitempty"`
}

type groupReport struct {
	Key     string           `json:"key" yaml:"key"`
	Records []map[string]any `json:"records" yaml:"records"`
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanOutput != "yaml" && scanOutput != "json" {
		return fmt.Errorf("unknown output format %q, want yaml or json", scanOutput)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Catalogs) == 0 {
		return fmt.Errorf("no catalogs defined, nothing to scan")
	}

	selected, err := selectCatalogs(cfg.Catalogs, args)
	if err != nil {
		return err
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logging.Sync(logger) }()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() { _ = tel.Shutdown(context.Background()) }()
	if degraded, reason := tel.Degraded(); degraded {
		logger.Warn("tracing degraded to no-op", zap.String("reason", reason))
	}

	recorder := metrics.NewRecorder()

	logger.Info("starting scan",
		zap.Int("catalogs", len(selected)),
		zap.String("output", scanOutput))
	start := time.Now()

	reports := make([]catalogReport, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	for i, cc := range selected {
		g.Go(func() error {
			report, err := scanCatalog(gctx, cc, logger, recorder)
			if err != nil {
				return fmt.Errorf("catalog %q: %w", cc.Name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("scan finished", zap.Duration("elapsed", time.Since(start)))

	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("cannot write metrics textfile",
				zap.String("path", cfg.Metrics.Textfile),
				zap.Error(err))
		}
	}

	return render(cmd, reports)
}

// selectCatalogs restricts the configured catalogs to the names given on the
// command line, keeping config order. No names selects everything.
func selectCatalogs(catalogs []config.CatalogConfig, names []string) ([]config.CatalogConfig, error) {
	if len(names) == 0 {
		return catalogs, nil
	}
	byName := make(map[string]config.CatalogConfig, len(catalogs))
	for _, cc := range catalogs {
		byName[cc.Name] = cc
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown catalog %q", name)
		}
		wanted[name] = struct{}{}
	}
	var selected []config.CatalogConfig
	for _, cc := range catalogs {
		if _, ok := wanted[cc.Name]; ok {
			selected = append(selected, cc)
		}
	}
	return selected, nil
}

// scanCatalog runs the full pipeline for one catalog: match, optional stat
// enrichment, filter, group and organize, all as configured.
func scanCatalog(ctx context.Context, cc config.CatalogConfig, logger *zap.Logger, recorder *metrics.Recorder) (catalogReport, error) {
	cat, err := buildCatalog(cc, logger, recorder)
	if err != nil {
		return catalogReport{}, err
	}

	workers := cc.Workers
	if scanWorkers > 0 {
		workers = scanWorkers
	}

	records := cat.Match(ctx, workers)
	if cc.AttachStat {
		attachStat(records, logger)
	}

	report := catalogReport{
		Name:     cc.Name,
		Root:     cat.Root(),
		Template: cc.Template,
		Matched:  len(records),
	}

	if len(cc.Criteria) > 0 {
		set, err := cc.CriteriaSet()
		if err != nil {
			return catalogReport{}, err
		}
		filtered, err := cat.Filter(ctx, set, workers)
		if err != nil {
			return catalogReport{}, err
		}
		n := len(filtered)
		report.Filtered = &n
		records = filtered
	}

	arranged := false

	if cc.Group != nil {
		grouping := cat.Group(ctx, cc.Group.Labels, cc.Group.Sort, cc.Group.Filtered)
		if grouping == nil {
			return catalogReport{}, fmt.Errorf("grouping by %v failed", cc.Group.Labels)
		}
		for _, grp := range grouping.Groups {
			report.Groups = append(report.Groups, groupReport{
				Key:     grp.Key,
				Records: renderRecords(grp.Records),
			})
		}
		arranged = true
	}

	if cc.Organize != nil {
		tree := cat.Organize(ctx, cc.Organize.Order, catalog.OutputMode(cc.Organize.Output), cc.Organize.Filtered)
		if tree == nil {
			return catalogReport{}, fmt.Errorf("organizing by %v failed", cc.Organize.Order)
		}
		report.Tree = tree.Render()
		arranged = true
	}

	if !arranged {
		report.Records = renderRecords(records)
	}
	return report, nil
}

// buildCatalog translates a catalog config entry into engine options.
func buildCatalog(cc config.CatalogConfig, logger *zap.Logger, recorder *metrics.Recorder) (*catalog.Catalog, error) {
	opts := []catalog.Option{
		catalog.WithLogger(logger.With(zap.String("catalog", cc.Name))),
		catalog.WithMetrics(recorder),
		catalog.WithTimeDerivation(!cc.SkipTimeDerivation),
	}
	if cc.SkipDateCheck {
		co := pattern.DefaultCheckOptions()
		co.RequireDateFields = false
		opts = append(opts, catalog.WithCheckOptions(co))
	}
	if cc.OverwriteFields {
		opts = append(opts, catalog.WithFieldOverwrite())
	}
	for _, f := range cc.Fields {
		opts = append(opts, catalog.WithField(f.Name, f.Pattern))
	}
	return catalog.New(cc.Root, cc.Template, opts...)
}

// attachStat adds file size and modification time fields to each record.
// Unreadable files keep their record and are reported at warn level.
func attachStat(records []*catalog.Record, logger *zap.Logger) {
	for _, rec := range records {
		info, err := os.Stat(rec.Path)
		if err != nil {
			logger.Warn("cannot stat matched file",
				zap.String("path", rec.Path),
				zap.Error(err))
			continue
		}
		rec.SetField("size", info.Size())
		rec.SetField("mtime", info.ModTime().UTC())
	}
}

func renderRecords(records []*catalog.Record) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = rec.AsMap()
	}
	return out
}

// render writes the reports to stdout in the selected format.
func render(cmd *cobra.Command, reports []catalogReport) error {
	switch scanOutput {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	default:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			_ = enc.Close()
			return err
		}
		return enc.Close()
	}
}
