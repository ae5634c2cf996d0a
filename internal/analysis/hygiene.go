package analysis

import (
	"regexp"
	"strings"

	"github.com/sprite-ai/staticreview/internal/review"
)

// maxLineReports caps per-line issues of one kind in a single file.
const maxLineReports = 10

var noCommitPattern = regexp.MustCompile(`(?i)@?\bnocommit\b`)

// NoCommitRule blocks files carrying a NOCOMMIT marker.
type NoCommitRule struct {
	opts Options
}

func (NoCommitRule) Name() string { return "no-commit" }

func (NoCommitRule) Description() string {
	return "fails on files containing a NOCOMMIT marker"
}

func (r NoCommitRule) CanReview(item review.Reviewable) bool {
	_, ok := contentFile(item, r.opts)
	return ok
}

func (r NoCommitRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}
	for i, line := range lines {
		if noCommitPattern.MatchString(line) {
			if err := rep.Error(r.Name(), f, i+1, "a NOCOMMIT marker was found"); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConflictMarkerRule blocks files with unresolved merge conflicts.
type ConflictMarkerRule struct {
	opts Options
}

func (ConflictMarkerRule) Name() string { return "conflict-markers" }

func (ConflictMarkerRule) Description() string {
	return "fails on unresolved merge conflict markers"
}

func (r ConflictMarkerRule) CanReview(item review.Reviewable) bool {
	_, ok := contentFile(item, r.opts)
	return ok
}

func (r ConflictMarkerRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}

	inConflict := false
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		var marker string
		switch {
		case strings.HasPrefix(line, "<<<<<<< ") || line == "<<<<<<<":
			inConflict = true
			marker = "<<<<<<<"
		case inConflict && line == "=======":
			marker = "======="
		case inConflict && (strings.HasPrefix(line, ">>>>>>> ") || line == ">>>>>>>"):
			inConflict = false
			marker = ">>>>>>>"
		default:
			continue
		}
		if err := rep.Error(r.Name(), f, i+1, "merge conflict marker %s", marker); err != nil {
			return err
		}
	}
	return nil
}

// LineEndingsRule rejects text files with Windows line endings.
type LineEndingsRule struct {
	opts Options
}

func (LineEndingsRule) Name() string { return "line-endings" }

func (LineEndingsRule) Description() string {
	return "fails on text files using CRLF line endings"
}

func (r LineEndingsRule) CanReview(item review.Reviewable) bool {
	_, ok := contentFile(item, r.opts)
	return ok
}

func (r LineEndingsRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}

	count, first := 0, 0
	for i, line := range lines {
		if strings.HasSuffix(line, "\r") {
			if count == 0 {
				first = i + 1
			}
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mime, err := f.MimeType()
	if err != nil {
		return err
	}
	return rep.Error(r.Name(), f, first, "%d line(s) end with CRLF (%s)", count, mime)
}

// TrailingWhitespaceRule warns about trailing spaces and tabs.
type TrailingWhitespaceRule struct {
	opts Options
}

func (TrailingWhitespaceRule) Name() string { return "trailing-whitespace" }

func (TrailingWhitespaceRule) Description() string {
	return "warns about lines ending in spaces or tabs"
}

func (r TrailingWhitespaceRule) CanReview(item review.Reviewable) bool {
	f, ok := contentFile(item, r.opts)
	// markdown uses two trailing spaces as a line break
	return ok && f.Extension() != "md"
}

func (r TrailingWhitespaceRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}

	reported := 0
	extra := 0
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if line == strings.TrimRight(line, " \t") {
			continue
		}
		if reported == maxLineReports {
			extra++
			continue
		}
		reported++
		if err := rep.Warning(r.Name(), f, i+1, "trailing whitespace"); err != nil {
			return err
		}
	}
	if extra > 0 {
		return rep.Warning(r.Name(), f, 0, "trailing whitespace on %d more line(s)", extra)
	}
	return nil
}
