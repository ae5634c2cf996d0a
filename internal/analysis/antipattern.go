package analysis

import (
	"regexp"

	"github.com/go-enry/go-enry/v2"

	"github.com/sprite-ai/staticreview/internal/model"
	"github.com/sprite-ai/staticreview/internal/review"
)

// Anti-pattern regexes.
var (
	// Broad exception handling
	broadExceptPatterns = []*regexp.Regexp{
		// Python: bare except and catch-all
		regexp.MustCompile(`(?i)except\s*:`),
		regexp.MustCompile(`(?i)except\s+Exception\s*:`),
		// Java/C#/PHP
		regexp.MustCompile(`catch\s*\(\s*(\\?Exception|\\?Throwable|Error)\s+\$?\w+\s*\)`),
		// Scala/Kotlin/Swift bare catch
		regexp.MustCompile(`(?i)catch\s*\{`),
		// Ruby: bare rescue and catch-all
		regexp.MustCompile(`(?i)rescue\s*$`),
		regexp.MustCompile(`(?i)rescue\s+StandardError`),
		// JS: swallowed promise rejection
		regexp.MustCompile(`\.catch\(\s*(?:_|err|\(\s*\))\s*=>\s*\{\s*\}`),
	}

	// Commented-out code patterns (lines that look like disabled code, not natural comments)
	commentedCodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(?://|#)\s*(?:func |def |class |if \(|for \(|while \(|return |import |from \S+ import |const |let |var |pub fn )`),
		regexp.MustCompile(`^\s*(?://|#)\s*[\w.$]+\s*\(.*\)\s*;\s*$`),
	}

	// Markers for unfinished work
	todoPattern = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b`)
)

// AntiPatternRule detects swallowed exceptions, commented-out code and
// unfinished-work markers in source files.
type AntiPatternRule struct {
	opts Options
}

func (AntiPatternRule) Name() string { return "anti-patterns" }

func (AntiPatternRule) Description() string {
	return "warns about broad exception handling; notes commented-out code and TODO markers"
}

func (r AntiPatternRule) CanReview(item review.Reviewable) bool {
	f, ok := contentFile(item, r.opts)
	if !ok {
		return false
	}
	lang := f.Language()
	return lang != "" && enry.GetLanguageType(lang) == enry.Programming
}

func (r AntiPatternRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}

	for i, line := range lines {
		level, msg := checkLine(line)
		if msg == "" {
			continue
		}
		if err := rep.Report(level, r.Name(), f, i+1, "%s: %s", msg, excerpt(line)); err != nil {
			return err
		}
	}
	return nil
}

// checkLine returns at most one finding per line, the most severe first.
func checkLine(line string) (model.Level, string) {
	for _, pat := range broadExceptPatterns {
		if pat.MatchString(line) {
			return model.LevelWarning, "broad exception handling"
		}
	}
	for _, pat := range commentedCodePatterns {
		if pat.MatchString(line) {
			return model.LevelInfo, "commented-out code"
		}
	}
	if m := todoPattern.FindString(line); m != "" {
		return model.LevelInfo, m + " marker"
	}
	return model.LevelInfo, ""
}
