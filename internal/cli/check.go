package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gertd/go-pluralize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/review"
	"github.com/sprite-ai/staticreview/internal/tui"
)

var plural = pluralize.NewClient()

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Review the staged files and print a report",
	Long: `Run every rule over the files staged for commit and print the issues
found. Useful as a pre-commit hook and in CI.

The staged content of each file is checked, not the working tree copy.
With --all, files changed but not staged and untracked files are checked too.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("all", false, "also check unstaged and untracked files")
	checkCmd.Flags().StringSlice("skip", nil, "rules to skip")
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}
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
	if run.Files.Count() == 0 && format == "text" {
		fmt.Fprintln(out, "No changes to check.")
		return nil
	}

	header := changeStats(run)
	if err := printReport(out, format, header, run.Report); err != nil {
		return err
	}
	return finish(run.Report, s.cfg)
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "markdown":
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json or markdown", format)
	}
}

// changeStats summarizes the files under review. Line counts only include
// changes whose file survived the include and exclude filters.
func changeStats(run *reviewRun) string {
	kept := make(map[string]bool, run.Files.Count())
	for f := range run.Files.Values() {
		kept[f.RelativePath()] = true
	}
	_, added, deleted := diff.Stats(lo.Filter(run.Changes, func(c diff.Change, _ int) bool {
		return kept[c.Path]
	}))
	return fmt.Sprintf("%s checked, +%d -%d", plural.Pluralize("file", run.Files.Count(), true), added, deleted)
}

func printReport(w io.Writer, format, header string, report *review.Reporter) error {
	switch format {
	case "json":
		return outputJSON(w, report)
	case "markdown":
		return outputMarkdown(w, header, report)
	default:
		return outputText(w, header, report)
	}
}

func outputText(w io.Writer, header string, report *review.Reporter) error {
	fmt.Fprintln(w, header)
	fmt.Fprintf(w, "Review: %s\n", report.Summary())
	if !report.HasIssues() {
		return nil
	}
	fmt.Fprintln(w)

	bySubject := report.BySubject()
	for _, subject := range report.Subjects() {
		fmt.Fprintf(w, "  %s\n", subject)
		for _, i := range bySubject[subject] {
			style := tui.LevelStyle(i.Level)
			fmt.Fprintf(w, "    %s %s\n", style.Render(tui.LevelIcon(i.Level)), i)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func outputJSON(w io.Writer, report *review.Reporter) error {
	type jsonIssue struct {
		Rule    string `json:"rule"`
		Subject string `json:"subject"`
		Line    int    `json:"line,omitempty"`
		Level   string `json:"level"`
		Message string `json:"message"`
	}

	type jsonOutput struct {
		Summary  string      `json:"summary"`
		MaxLevel string      `json:"max_level,omitempty"`
		Total    int         `json:"total"`
		Issues   []jsonIssue `json:"issues"`
	}

	out := jsonOutput{
		Summary: report.Summary(),
		Total:   report.Issues().Count(),
		Issues:  []jsonIssue{},
	}
	if level, ok := report.MaxLevel(); ok {
		out.MaxLevel = level.String()
	}

	for i := range report.Issues().Values() {
		out.Issues = append(out.Issues, jsonIssue{
			Rule:    i.Rule,
			Subject: i.Subject,
			Line:    i.Line,
			Level:   i.Level.String(),
			Message: i.Message,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputMarkdown(w io.Writer, header string, report *review.Reporter) error {
	fmt.Fprintf(w, "## Static review\n\n")
	fmt.Fprintf(w, "%s\n\n", header)
	fmt.Fprintf(w, "**Result:** %s\n\n", report.Summary())

	if !report.HasIssues() {
		return nil
	}

	fmt.Fprintln(w, "| Level | Rule | Location | Message |")
	fmt.Fprintln(w, "|-------|------|----------|---------|")
	for i := range report.Issues().Values() {
		loc := i.Subject
		if i.Line > 0 {
			loc = fmt.Sprintf("%s:%d", i.Subject, i.Line)
		}
		fmt.Fprintf(w, "| %s | %s | `%s` | %s |\n", i.Level, i.Rule, loc, markdownEscape(i.Message))
	}
	return nil
}

func markdownEscape(s string) string {
	var b []rune
	for _, r := range s {
		if r == '|' || r == '`' {
			b = append(b, '\\')
		}
		b = append(b, r)
	}
	return string(b)
}
