package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/staticreview/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse the staged files and their issues interactively",
	Long: `Review the staged files, then open a terminal browser showing each
file's staged diff with the issues found annotated inline.

Examples:
  static-review review              # staged files
  static-review review --all        # staged, unstaged and untracked files
  static-review review --stat       # print a summary and exit`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().Bool("all", false, "also review unstaged and untracked files")
	reviewCmd.Flags().StringSlice("skip", nil, "rules to skip")
	reviewCmd.Flags().String("style", "", "syntax highlighting style (chroma style name)")
	reviewCmd.Flags().Bool("stat", false, "print file and issue counts and exit (non-interactive)")
}

func runReview(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")
	skip, _ := cmd.Flags().GetStringSlice("skip")

	s, err := openSession()
	if err != nil {
		return err
	}
	run, err := s.reviewWorkingCopy(cmd.Context(), all, skip)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if run.Files.Count() == 0 {
		fmt.Fprintln(out, "No changes to review.")
		return nil
	}

	if stat, _ := cmd.Flags().GetBool("stat"); stat {
		return printStat(cmd, run)
	}

	style, _ := cmd.Flags().GetString("style")
	return tui.Run(tui.Input{
		Files:   run.Files,
		Changes: run.Changes,
		Report:  run.Report,
		Style:   style,
	})
}

func printStat(cmd *cobra.Command, run *reviewRun) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, changeStats(run))

	bySubject := run.Report.BySubject()
	for f := range run.Files.Values() {
		fmt.Fprintf(out, "  %-2s %-50s %s\n", f.Status(), f.Name(),
			plural.Pluralize("issue", len(bySubject[f.Name()]), true))
	}
	fmt.Fprintf(out, "Review: %s\n", run.Report.Summary())
	return nil
}
