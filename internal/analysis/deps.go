package analysis

import (
	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/review"
)

// Dependency/lockfile patterns.
var depFiles = map[string]string{
	"go.mod":            "go",
	"go.sum":            "go",
	"package.json":      "npm",
	"package-lock.json": "npm",
	"yarn.lock":         "npm",
	"pnpm-lock.yaml":    "npm",
	"composer.json":     "composer",
	"composer.lock":     "composer",
	"Cargo.toml":        "cargo",
	"Cargo.lock":        "cargo",
	"requirements.txt":  "pip",
	"Pipfile":           "pip",
	"Pipfile.lock":      "pip",
	"pyproject.toml":    "pip",
	"poetry.lock":       "pip",
	"Gemfile":           "gem",
	"Gemfile.lock":      "gem",
	"mix.exs":           "hex",
	"mix.lock":          "hex",
}

// DependencyRule notes changes to dependency manifests and lockfiles.
// Deleted manifests are reported too.
type DependencyRule struct{}

func (DependencyRule) Name() string { return "dependencies" }

func (DependencyRule) Description() string {
	return "notes changes to dependency manifests and lockfiles"
}

func (DependencyRule) CanReview(item review.Reviewable) bool {
	f, ok := item.(*file.File)
	if !ok {
		return false
	}
	_, isDep := depFiles[f.FileName()]
	return isDep
}

func (r DependencyRule) Review(rep *review.Reporter, item review.Reviewable) error {
	f := item.(*file.File)
	status, err := f.FormattedStatus()
	if err != nil {
		return err
	}
	return rep.Info(r.Name(), f, 0, "%s dependencies %s", depFiles[f.FileName()], status)
}
