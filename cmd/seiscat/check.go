package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/seistack/seiscat/internal/logging"
	"github.com/seistack/seiscat/pkg/pattern"
)

var (
	checkRoot     string
	checkResp     bool
	checkSkipDate bool
	checkFields   []string
)

var checkCmd = &cobra.Command{
	Use:   "check TEMPLATE",
	Short: "Validate a path template",
	Long: `Check validates a path template against the field vocabulary and prints
the regular expression it compiles to. Nothing is scanned.

Examples:
  # Validate a day-volume template
  seiscat check --root /data "{home}/{YYYY}/{JJJ}/{station}_{component}.sac"

  # Validate a response archive template with a custom field
  seiscat check --resp --field channel='[A-Z]{3}' "{home}/{station}/{resptype}.{channel}.{component}"`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkRoot, "root", ".", "catalog root the template is bound to")
	checkCmd.Flags().BoolVar(&checkResp, "resp", false, "use the instrument-response profile")
	checkCmd.Flags().BoolVar(&checkSkipDate, "skip-date-check", false, "accept templates without date fields")
	checkCmd.Flags().StringArrayVar(&checkFields, "field", nil, "custom field as name=pattern (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	logCfg := logging.NewDefaultConfig()
	logCfg.Level = zapcore.WarnLevel
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	base := pattern.DefaultFields()
	opts := pattern.DefaultCheckOptions()
	if checkResp {
		base = append(base, pattern.RespFields()...)
		opts = pattern.RespCheckOptions()
	}
	if checkSkipDate {
		opts.RequireDateFields = false
	}

	reg := pattern.NewRegistry(base, logger)
	for _, spec := range checkFields {
		name, fragment, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("bad --field %q, want name=pattern", spec)
		}
		if err := reg.Add(name, fragment, true); err != nil {
			return err
		}
	}

	c, err := pattern.Check(checkRoot, args[0], reg, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "template: %s\n", c.Template())
	fmt.Fprintf(out, "pattern:  %s\n", c.Expr())
	return nil
}
