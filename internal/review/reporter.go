package review

import (
	"fmt"
	"strings"

	"github.com/gertd/go-pluralize"
	"github.com/samber/lo"

	"github.com/sprite-ai/staticreview/internal/model"
)

var plural = pluralize.NewClient()

// Reporter collects issues raised while reviewing. It is handed to each
// rule in turn.
type Reporter struct {
	issues *IssueCollection
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	issues, err := NewIssueCollection()
	if err != nil {
		panic(err)
	}
	return &Reporter{issues: issues}
}

// Report records an issue about item.
func (r *Reporter) Report(level model.Level, rule string, item Reviewable, line int, format string, args ...any) error {
	return r.issues.Append(&Issue{
		Level:   level,
		Rule:    rule,
		Subject: item.Name(),
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Info records an informational issue.
func (r *Reporter) Info(rule string, item Reviewable, line int, format string, args ...any) error {
	return r.Report(model.LevelInfo, rule, item, line, format, args...)
}

// Warning records a warning.
func (r *Reporter) Warning(rule string, item Reviewable, line int, format string, args ...any) error {
	return r.Report(model.LevelWarning, rule, item, line, format, args...)
}

// Error records an error.
func (r *Reporter) Error(rule string, item Reviewable, line int, format string, args ...any) error {
	return r.Report(model.LevelError, rule, item, line, format, args...)
}

// Issues returns every issue in the order they were reported.
func (r *Reporter) Issues() *IssueCollection {
	return r.issues
}

// HasIssues reports whether anything was reported.
func (r *Reporter) HasIssues() bool {
	return r.issues.Count() > 0
}

// ByLevel returns issues at or above minLevel.
func (r *Reporter) ByLevel(minLevel model.Level) []*Issue {
	return lo.Filter(r.issues.Slice(), func(i *Issue, _ int) bool {
		return i.Level >= minLevel
	})
}

// BySubject returns issues grouped by reviewable name.
func (r *Reporter) BySubject() map[string][]*Issue {
	return lo.GroupBy(r.issues.Slice(), func(i *Issue) string {
		return i.Subject
	})
}

// Subjects returns the names of reviewables with issues, in the order
// their first issue was reported.
func (r *Reporter) Subjects() []string {
	return lo.Uniq(lo.Map(r.issues.Slice(), func(i *Issue, _ int) string {
		return i.Subject
	}))
}

// MaxLevel returns the most severe level reported. ok is false when there
// are no issues.
func (r *Reporter) MaxLevel() (level model.Level, ok bool) {
	for i := range r.issues.Values() {
		if !ok || i.Level > level {
			level = i.Level
			ok = true
		}
	}
	return level, ok
}

// Summary returns a one-line summary of the issues, most severe first.
func (r *Reporter) Summary() string {
	if !r.HasIssues() {
		return "No issues found"
	}

	counts := lo.CountValuesBy(r.issues.Slice(), func(i *Issue) model.Level {
		return i.Level
	})

	var parts []string
	for _, level := range []model.Level{model.LevelError, model.LevelWarning, model.LevelInfo} {
		if c := counts[level]; c > 0 {
			parts = append(parts, plural.Pluralize(level.String(), c, true))
		}
	}
	return strings.Join(parts, ", ")
}
