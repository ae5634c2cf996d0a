package analysis

import (
	"regexp"

	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/review"
)

// Schema/migration file patterns.
var schemaPatterns = []struct {
	pattern     *regexp.Regexp
	description string
}{
	{regexp.MustCompile(`(?i)migrat`), "database migration"},
	{regexp.MustCompile(`(?i)schema`), "schema definition"},
	{regexp.MustCompile(`\.proto$`), "protobuf definition"},
	{regexp.MustCompile(`(?i)(openapi|swagger)\.(ya?ml|json)$`), "OpenAPI spec"},
	{regexp.MustCompile(`(?i)\.graphqls?$`), "GraphQL schema"},
	{regexp.MustCompile(`\.prisma$`), "Prisma schema"},
}

// Destructive DDL.
var destructiveDDL = regexp.MustCompile(`(?i)\b(DROP\s+(TABLE|COLUMN|INDEX|VIEW|SCHEMA|DATABASE)|TRUNCATE\s+(TABLE\s+)?\w+)\b`)

// SchemaRule flags changes to schemas, migrations and API specs, and
// destructive statements in SQL files.
type SchemaRule struct{}

func (SchemaRule) Name() string { return "schema" }

func (SchemaRule) Description() string {
	return "flags schema, migration and API spec changes and destructive SQL"
}

func (SchemaRule) CanReview(item review.Reviewable) bool {
	f, ok := item.(*file.File)
	if !ok {
		return false
	}
	if f.Extension() == "sql" {
		return true
	}
	_, ok = schemaKind(f)
	return ok
}

func schemaKind(f *file.File) (string, bool) {
	for _, sp := range schemaPatterns {
		if sp.pattern.MatchString(f.Name()) {
			return sp.description, true
		}
	}
	return "", false
}

func (r SchemaRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f := item.(*file.File)

	if kind, ok := schemaKind(f); ok {
		status, err := f.FormattedStatus()
		if err != nil {
			return err
		}
		if err := rep.Warning(r.Name(), f, 0, "%s file %s", kind, status); err != nil {
			return err
		}
	}

	if f.IsDeleted() || f.Extension() != "sql" {
		return nil
	}

	lines, err := textLines(f)
	if err != nil {
		return err
	}
	for i, line := range lines {
		if isCommentLine(line) {
			continue
		}
		if destructiveDDL.MatchString(line) {
			if err := rep.Warning(r.Name(), f, i+1, "destructive statement: %s", excerpt(line)); err != nil {
				return err
			}
		}
	}
	return nil
}
