package config

import (
	"fmt"
	"slices"

	"github.com/seistack/seiscat/internal/logging"
	"github.com/seistack/seiscat/internal/telemetry"
	"github.com/seistack/seiscat/pkg/criteria"
)

// Config holds the complete seiscat configuration.
type Config struct {
	Logging   logging.Config   `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
	Metrics   MetricsConfig    `koanf:"metrics"`
	Catalogs  []CatalogConfig  `koanf:"catalogs"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile is a path the collected counters are written to after a
	// scan, in the Prometheus textfile collector format. Empty disables
	// the export.
	Textfile string `koanf:"textfile"`
}

// CatalogConfig describes one catalog to scan: where its files live, how
// their paths are shaped, and what to do with the matched records.
type CatalogConfig struct {
	// Name identifies the catalog in logs and output. Defaults to its
	// position in the list.
	Name string `koanf:"name"`

	// Root is the directory to walk.
	Root string `koanf:"root"`

	// Template is the path template matched against files under Root,
	// e.g. "{home}/{YYYY}/{JJJ}/{station}_{component}.sac".
	Template string `koanf:"template"`

	// Workers bounds the matching and filtering concurrency. Zero means
	// sequential.
	Workers int `koanf:"workers"`

	// Fields adds custom placeholder vocabulary on top of the builtins.
	Fields []FieldConfig `koanf:"fields"`

	// OverwriteFields lets entries in Fields replace builtin patterns of
	// the same name instead of being ignored.
	OverwriteFields bool `koanf:"overwrite_fields"`

	// SkipDateCheck accepts templates without any date placeholder, for
	// trees like response archives whose names carry no time.
	SkipDateCheck bool `koanf:"skip_date_check"`

	// SkipTimeDerivation keeps the date placeholders as plain string
	// fields instead of deriving a timestamp from them.
	SkipTimeDerivation bool `koanf:"skip_time_derivation"`

	// AttachStat adds file size and modification time to each record.
	AttachStat bool `koanf:"attach_stat"`

	// Criteria filters records by field, keyed by field name.
	Criteria map[string]CriterionConfig `koanf:"criteria"`

	// Group arranges the surviving records into labeled groups.
	Group *GroupConfig `koanf:"group"`

	// Organize nests the surviving records into a tree keyed by field
	// values.
	Organize *OrganizeConfig `koanf:"organize"`
}

// FieldConfig is one custom placeholder: a name and the regular expression
// fragment its values must match.
type FieldConfig struct {
	Name    string `koanf:"name"`
	Pattern string `koanf:"pattern"`
}

// CriterionConfig is one filter criterion as written in YAML.
type CriterionConfig struct {
	// Type is the criterion mode, "list" or "range".
	Type string `koanf:"type"`

	// DataType optionally restricts the field values the criterion
	// applies to: str, int, float, numeric or datetime.
	DataType string `koanf:"data_type"`

	// Value holds the admitted values (list) or flat start/end pairs
	// (range). Datetime values are written as strings and parsed on
	// conversion.
	Value []any `koanf:"value"`
}

// GroupConfig describes a grouping pass.
type GroupConfig struct {
	Labels   []string `koanf:"labels"`
	Sort     []string `koanf:"sort"`
	Filtered bool     `koanf:"filtered"`
}

// OrganizeConfig describes an organizing pass.
type OrganizeConfig struct {
	Order    []string `koanf:"order"`
	Output   string   `koanf:"output"`
	Filtered bool     `koanf:"filtered"`
}

// NewDefaultConfig returns the configuration used when no file and no
// environment overrides are present.
func NewDefaultConfig() *Config {
	return &Config{
		Logging:   *logging.NewDefaultConfig(),
		Telemetry: *telemetry.NewDefaultConfig(),
	}
}

// applyDefaults fills in zero values after unmarshaling.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "seiscat"
	}
	if cfg.Telemetry.ServiceVersion == "" {
		cfg.Telemetry.ServiceVersion = "dev"
	}
	if cfg.Telemetry.Exporter == "" {
		cfg.Telemetry.Exporter = telemetry.ExporterStdout
	}
	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1.0
	}
	for i := range cfg.Catalogs {
		cc := &cfg.Catalogs[i]
		if cc.Name == "" {
			cc.Name = fmt.Sprintf("catalog%d", i)
		}
		if cc.Workers == 0 {
			cc.Workers = 1
		}
		if cc.Organize != nil && cc.Organize.Output == "" {
			cc.Organize.Output = "dict"
		}
	}
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Catalogs))
	for i := range c.Catalogs {
		cc := &c.Catalogs[i]
		if err := cc.Validate(); err != nil {
			return fmt.Errorf("catalog %q: %w", cc.Name, err)
		}
		if _, dup := seen[cc.Name]; dup {
			return fmt.Errorf("duplicate catalog name %q", cc.Name)
		}
		seen[cc.Name] = struct{}{}
	}
	return nil
}

// Validate checks a single catalog definition.
func (cc *CatalogConfig) Validate() error {
	if cc.Root == "" {
		return fmt.Errorf("root is required")
	}
	if cc.Template == "" {
		return fmt.Errorf("template is required")
	}
	if cc.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cc.Workers)
	}
	for _, f := range cc.Fields {
		if f.Name == "" {
			return fmt.Errorf("field with empty name")
		}
		if f.Pattern == "" {
			return fmt.Errorf("field %q has no pattern", f.Name)
		}
	}
	for field, crit := range cc.Criteria {
		switch criteria.Mode(crit.Type) {
		case criteria.ModeList, criteria.ModeRange:
		default:
			return fmt.Errorf("criterion %q: unknown type %q", field, crit.Type)
		}
		switch crit.DataType {
		case "", criteria.TypeString, criteria.TypeInt, criteria.TypeFloat, criteria.TypeNumeric, criteria.TypeDatetime:
		default:
			return fmt.Errorf("criterion %q: unknown data_type %q", field, crit.DataType)
		}
		if len(crit.Value) == 0 {
			return fmt.Errorf("criterion %q: value is empty", field)
		}
	}
	if cc.Group != nil {
		if len(cc.Group.Labels) == 0 {
			return fmt.Errorf("group: labels is empty")
		}
		if cc.Group.Filtered && len(cc.Criteria) == 0 {
			return fmt.Errorf("group: filtered is set but no criteria are defined")
		}
		for _, s := range cc.Group.Sort {
			if !slices.Contains(cc.Group.Labels, s) {
				return fmt.Errorf("group: sort label %q is not a group label", s)
			}
		}
	}
	if cc.Organize != nil {
		if len(cc.Organize.Order) == 0 {
			return fmt.Errorf("organize: order is empty")
		}
		if cc.Organize.Filtered && len(cc.Criteria) == 0 {
			return fmt.Errorf("organize: filtered is set but no criteria are defined")
		}
		switch cc.Organize.Output {
		case "", "dict", "path":
		default:
			return fmt.Errorf("organize: unknown output %q", cc.Organize.Output)
		}
	}
	return nil
}
