package analysis

import (
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/sprite-ai/staticreview/internal/model"
	"github.com/sprite-ai/staticreview/internal/review"
)

// Security-sensitive patterns grouped by category.
var securityPatterns = []struct {
	category string
	patterns []*regexp.Regexp
	level    model.Level
}{
	{
		category: "private key",
		patterns: compilePatterns(
			`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY( BLOCK)?-----`,
		),
		level: model.LevelError,
	},
	{
		category: "hardcoded secret",
		patterns: compilePatterns(
			`(?i)(api.?key|secret|password|passwd|token)\s*[:=]\s*["'][^"'\s]{8,}["']`,
			`\bAKIA[0-9A-Z]{16}\b`,
			`\bgh[pousr]_[A-Za-z0-9]{36}\b`,
		),
		level: model.LevelError,
	},
	{
		category: "TLS verification",
		patterns: compilePatterns(
			`(?i)(InsecureSkipVerify\s*:\s*true|verify\s*=\s*False|rejectUnauthorized\s*:\s*false|CURLOPT_SSL_VERIFYPEER\s*,\s*(false|0))`,
		),
		level: model.LevelWarning,
	},
	{
		category: "weak hash",
		patterns: compilePatterns(
			`(?i)\b(md5|sha1)\s*\(`,
			`(?i)crypto/(md5|sha1)"`,
			`(?i)hashlib\.(md5|sha1)\b`,
		),
		level: model.LevelWarning,
	},
	{
		category: "dynamic code execution",
		patterns: compilePatterns(
			`(?i)(^|[^\w.])(eval|create_function)\s*\(`,
			`(?i)\b(shell_exec|passthru|popen|proc_open|os\.system)\s*\(`,
			`(?i)subprocess\.\w+\(.*shell\s*=\s*True`,
		),
		level: model.LevelWarning,
	},
	{
		category: "SQL built from strings",
		patterns: compilePatterns(
			`(?i)"\s*(SELECT|INSERT|UPDATE|DELETE)\b[^"]*"\s*(\+|\.)\s*\$?\w+`,
			`(?i)(Sprintf|format)\(\s*"\s*(SELECT|INSERT|UPDATE|DELETE)\b`,
		),
		level: model.LevelWarning,
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// SecurityRule flags security-sensitive code in source files.
type SecurityRule struct {
	opts Options
}

func (SecurityRule) Name() string { return "security" }

func (SecurityRule) Description() string {
	return "flags secrets, disabled TLS checks, weak hashes, eval and string-built SQL"
}

// CanReview accepts programming-language files and dotenv-style config,
// where secrets tend to end up.
func (r SecurityRule) CanReview(item review.Reviewable) bool {
	f, ok := contentFile(item, r.opts)
	if !ok {
		return false
	}
	if strings.HasPrefix(f.FileName(), ".env") || f.Extension() == "pem" || f.Extension() == "key" {
		return true
	}
	lang := f.Language()
	return lang != "" && enry.GetLanguageType(lang) == enry.Programming
}

func (r SecurityRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f, _ := contentFile(item, r.opts)
	lines, err := textLines(f)
	if err != nil {
		return err
	}

	for i, line := range lines {
		for _, sp := range securityPatterns {
			// keys and secrets are just as live inside a comment
			if sp.level < model.LevelError && isCommentLine(line) {
				continue
			}
			for _, re := range sp.patterns {
				if re.MatchString(line) {
					if err := rep.Report(sp.level, r.Name(), f, i+1, "security-sensitive code (%s): %s", sp.category, excerpt(line)); err != nil {
						return err
					}
					break // one issue per category per line
				}
			}
		}
	}
	return nil
}
