package analysis

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sprite-ai/staticreview/internal/message"
	"github.com/sprite-ai/staticreview/internal/review"
)

const (
	subjectSoftLimit = 50
	subjectHardLimit = 72
	bodyLineLimit    = 72
)

var (
	wipPattern = regexp.MustCompile(`(?i)^(wip\b|\[wip\]|fixup!|squash!)`)
	urlPattern = regexp.MustCompile(`^\s*(\[\d+\]:?\s*)?\S+://\S+$`)
)

// CommitSubjectRule checks the first line of a commit message.
type CommitSubjectRule struct{}

func (CommitSubjectRule) Name() string { return "commit-subject" }

func (CommitSubjectRule) Description() string {
	return "checks commit subject length, capitalization, trailing period and WIP markers"
}

func (CommitSubjectRule) CanReview(item review.Reviewable) bool {
	_, ok := item.(*message.CommitMessage)
	return ok
}

func (r CommitSubjectRule) Review(rep *review.Reporter, item review.Reviewable) error {
	m := item.(*message.CommitMessage)
	if m.IsEmpty() {
		return rep.Error(r.Name(), m, 0, "commit message is empty")
	}

	subject := m.Subject()
	length := utf8.RuneCountInString(subject)

	var err error
	report := func(fn func(string, review.Reviewable, int, string, ...any) error, format string, args ...any) {
		if err == nil {
			err = fn(r.Name(), m, 1, format, args...)
		}
	}

	switch {
	case length > subjectHardLimit:
		report(rep.Error, "subject is %d characters, limit is %d", length, subjectHardLimit)
	case length > subjectSoftLimit:
		report(rep.Warning, "subject is %d characters, keep it under %d", length, subjectSoftLimit)
	}

	if strings.HasSuffix(subject, ".") {
		report(rep.Warning, "subject ends with a period")
	}

	if first, _ := utf8.DecodeRuneInString(subject); unicode.IsLower(first) {
		report(rep.Warning, "subject does not start with a capital letter")
	}

	if wipPattern.MatchString(subject) {
		report(rep.Error, "work in progress commit: %s", excerpt(subject))
	}

	return err
}

// CommitBodyRule checks the layout of a commit message body.
type CommitBodyRule struct{}

func (CommitBodyRule) Name() string { return "commit-body" }

func (CommitBodyRule) Description() string {
	return "checks the blank line after the subject and body line length"
}

func (CommitBodyRule) CanReview(item review.Reviewable) bool {
	m, ok := item.(*message.CommitMessage)
	return ok && len(m.Lines()) > 1
}

func (r CommitBodyRule) Review(rep *review.Reporter, item review.Reviewable) error {
	m := item.(*message.CommitMessage)
	lines := m.Lines()

	if lines[1] != "" {
		if err := rep.Warning(r.Name(), m, 2, "separate the subject from the body with a blank line"); err != nil {
			return err
		}
	}

	for i, line := range lines[1:] {
		if utf8.RuneCountInString(line) <= bodyLineLimit || urlPattern.MatchString(line) {
			continue
		}
		if err := rep.Warning(r.Name(), m, i+2, "body line is longer than %d characters", bodyLineLimit); err != nil {
			return err
		}
	}
	return nil
}
