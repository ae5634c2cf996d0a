package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/staticreview/internal/analysis"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the review rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	cfg, err := configForWorkDir()
	if err != nil {
		return err
	}

	skipped := make(map[string]bool)
	for _, name := range cfg.Skip {
		skipped[name] = true
	}

	opts := analysis.Options{MaxFileSize: cfg.MaxFileSize, SkipVendored: cfg.SkipVendored}
	for _, r := range analysis.All(opts) {
		note := ""
		if skipped[r.Name()] {
			note = " (skipped)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s%s\n", r.Name(), r.Description(), note)
	}
	return nil
}
