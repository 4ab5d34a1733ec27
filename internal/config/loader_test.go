package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seiscat.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, `logging:
  level: debug
  format: json

telemetry:
  enabled: true
  service_name: seiscat-test

metrics:
  textfile: /var/lib/seiscat/metrics.prom

catalogs:
  - name: day-volumes
    root: /data/waveforms
    template: "{home}/{YYYY}/{JJJ}/{station}_{component}.sac"
    workers: 4
    criteria:
      station:
        type: list
        value: [NJ2, SZN]
      JJJ:
        type: range
        data_type: int
        value: [1, 200]
    group:
      labels: [station, component]
      sort: [station]
    organize:
      order: [station]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Logging.Level != zapcore.DebugLevel {
		t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true")
	}
	if cfg.Telemetry.ServiceName != "seiscat-test" {
		t.Errorf("Telemetry.ServiceName = %q, want seiscat-test", cfg.Telemetry.ServiceName)
	}
	if cfg.Metrics.Textfile != "/var/lib/seiscat/metrics.prom" {
		t.Errorf("Metrics.Textfile = %q", cfg.Metrics.Textfile)
	}

	if len(cfg.Catalogs) != 1 {
		t.Fatalf("len(Catalogs) = %d, want 1", len(cfg.Catalogs))
	}
	cc := cfg.Catalogs[0]
	if cc.Name != "day-volumes" {
		t.Errorf("Name = %q, want day-volumes", cc.Name)
	}
	if cc.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cc.Workers)
	}
	if got := cc.Criteria["station"].Type; got != "list" {
		t.Errorf("criteria station type = %q, want list", got)
	}
	if got := len(cc.Criteria["JJJ"].Value); got != 2 {
		t.Errorf("criteria JJJ values = %d, want 2", got)
	}
	if cc.Group == nil || len(cc.Group.Labels) != 2 {
		t.Errorf("Group = %+v, want two labels", cc.Group)
	}
	if cc.Organize == nil || cc.Organize.Output != "dict" {
		t.Errorf("Organize = %+v, want defaulted dict output", cc.Organize)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `logging:
  level: info
`)

	t.Setenv("SEISCAT_LOGGING_LEVEL", "warn")
	t.Setenv("SEISCAT_METRICS_TEXTFILE", "/tmp/metrics.prom")
	t.Setenv("SEISCAT_TELEMETRY_SERVICE_NAME", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Logging.Level != zapcore.WarnLevel {
		t.Errorf("Logging.Level = %v, want warn (env override)", cfg.Logging.Level)
	}
	if cfg.Metrics.Textfile != "/tmp/metrics.prom" {
		t.Errorf("Metrics.Textfile = %q, want env value", cfg.Metrics.Textfile)
	}
	if cfg.Telemetry.ServiceName != "from-env" {
		t.Errorf("Telemetry.ServiceName = %q, want from-env", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_OrderedCustomFields(t *testing.T) {
	path := writeConfig(t, `catalogs:
  - name: shots
    root: /data/shots
    template: "{home}/{YYYY}/{line}_{shot}_{station}_{component}.sac"
    fields:
      - {name: line, pattern: 'L\d{2}'}
      - {name: shot, pattern: '\d{4}'}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	fields := cfg.Catalogs[0].Fields
	if len(fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(fields))
	}
	// Registration order is the list order.
	if fields[0].Name != "line" || fields[1].Name != "shot" {
		t.Errorf("Fields = %+v, want line then shot", fields)
	}
	if fields[0].Pattern != `L\d{2}` {
		t.Errorf("Pattern = %q, want L\\d{2}", fields[0].Pattern)
	}
}

func TestLoad_MissingOptionalFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v, want nil", err)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console default", cfg.Logging.Format)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want disabled default")
	}
	if len(cfg.Catalogs) != 0 {
		t.Errorf("len(Catalogs) = %d, want 0", len(cfg.Catalogs))
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load() error = nil, want open error")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "logging: [unclosed")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `catalogs:
  - name: broken
    template: "{home}/{station}.sac"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "root is required") {
		t.Errorf("error = %v, want root is required", err)
	}
}

func TestLoad_OversizedFile(t *testing.T) {
	padding := bytes.Repeat([]byte("# padding\n"), maxConfigFileSize/10+1)
	path := writeConfig(t, string(padding))

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want size error")
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("error = %v, want size error", err)
	}
}

func TestLoad_DirectoryAsConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	if err == nil {
		t.Fatal("Load() error = nil, want directory error")
	}
}
