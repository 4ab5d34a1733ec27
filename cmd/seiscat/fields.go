package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seistack/seiscat/pkg/pattern"
)

var fieldsResp bool

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the template field vocabulary",
	Long: `Fields prints every built-in template field with its capture group and
the pattern its values must match.`,
	Run: runFields,
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsResp, "resp", false, "include the instrument-response fields")
}

func runFields(cmd *cobra.Command, args []string) {
	fields := pattern.DefaultFields()
	if fieldsResp {
		fields = append(fields, pattern.RespFields()...)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tGROUP\tPATTERN")
	for _, f := range fields {
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Token, f.Group, f.Fragment)
	}
	_ = w.Flush()
}
