// Package analysis implements the review rules run by static-review.
package analysis

import (
	"os"
	"sort"
	"strings"

	"github.com/aquilax/truncate"
	"github.com/pkg/errors"

	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/review"
)

// DefaultMaxFileSize is the large-file threshold when none is configured.
const DefaultMaxFileSize = 1 << 20

// Options tunes the rules that need settings.
type Options struct {
	MaxFileSize  int64 // bytes; 0 uses DefaultMaxFileSize
	SkipVendored bool  // content rules ignore vendored files
}

// All returns every rule in the order they run.
func All(opts Options) []review.Rule {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return []review.Rule{
		NoCommitRule{opts: opts},
		ConflictMarkerRule{opts: opts},
		LineEndingsRule{opts: opts},
		TrailingWhitespaceRule{opts: opts},
		SecurityRule{opts: opts},
		AntiPatternRule{opts: opts},
		LargeFileRule{opts: opts},
		DependencyRule{},
		SchemaRule{},
		CommitSubjectRule{},
		CommitBodyRule{},
	}
}

// Names returns the names of every rule, sorted.
func Names() []string {
	var names []string
	for _, r := range All(Options{}) {
		names = append(names, r.Name())
	}
	sort.Strings(names)
	return names
}

// Build returns the rules not listed in skip. Unknown names in skip are
// an error so typos do not silently enable a rule.
func Build(opts Options, skip []string) (*review.RuleCollection, error) {
	skipSet := make(map[string]bool)
	for _, s := range skip {
		skipSet[s] = true
	}

	rules, err := review.NewRuleCollection()
	if err != nil {
		return nil, err
	}

	for _, r := range All(opts) {
		if skipSet[r.Name()] {
			delete(skipSet, r.Name())
			continue
		}
		if err := rules.Append(r); err != nil {
			return nil, err
		}
	}

	if len(skipSet) > 0 {
		var unknown []string
		for name := range skipSet {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		return nil, errors.Errorf("unknown rule(s): %s", strings.Join(unknown, ", "))
	}

	return rules, nil
}

// reviewableFile returns the file behind item if it has content to read.
func reviewableFile(item review.Reviewable) (*file.File, bool) {
	f, ok := item.(*file.File)
	if !ok || f.IsDeleted() {
		return nil, false
	}
	return f, true
}

// contentFile is reviewableFile plus the vendored-file policy.
func contentFile(item review.Reviewable, opts Options) (*file.File, bool) {
	f, ok := reviewableFile(item)
	if !ok {
		return nil, false
	}
	if opts.SkipVendored && f.IsVendored() {
		return nil, false
	}
	return f, true
}

// readLines returns the lines of the file's content with line terminators
// removed except for a trailing '\r'.
func readLines(f *file.File) ([]string, error) {
	data, err := os.ReadFile(f.FullPath())
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", f.Name())
	}

	if len(data) == 0 {
		return nil, nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// textLines is readLines for textual files only; binary content yields nil.
func textLines(f *file.File) ([]string, error) {
	text, err := f.IsText()
	if err != nil || !text {
		return nil, err
	}
	return readLines(f)
}

func isCommentLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"//", "#", "*", "/*", "--", ";"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// excerpt shortens a source line for use in a message.
func excerpt(line string) string {
	return truncate.Truncate(strings.TrimSpace(line), 60, "...", truncate.PositionEnd)
}
