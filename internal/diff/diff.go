// Package diff turns git's unified diff output into per-file changes.
package diff

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sprite-ai/staticreview/internal/file"
)

// Change is one file touched by a diff.
type Change struct {
	Status    file.Status
	Path      string // path after the change, relative to the repository root
	PriorPath string // set for renames and copies
	IsBinary  bool
	Fragments []*gitdiff.TextFragment
	Added     int
	Deleted   int
}

// Name returns the display name for the change.
func (c Change) Name() string {
	if c.PriorPath != "" {
		return fmt.Sprintf("%s → %s", c.PriorPath, c.Path)
	}
	return c.Path
}

// Stats returns aggregate statistics for a set of changes.
func Stats(changes []Change) (files, added, deleted int) {
	files = len(changes)
	for _, c := range changes {
		added += c.Added
		deleted += c.Deleted
	}
	return
}

// Parse reads unified diff text, as produced by `git diff -M`.
func Parse(raw string) ([]Change, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	changes := make([]Change, 0, len(parsed))
	for _, f := range parsed {
		c := Change{
			Path:      f.NewName,
			IsBinary:  f.IsBinary,
			Fragments: f.TextFragments,
		}

		switch {
		case f.IsNew:
			c.Status = file.StatusAdded
		case f.IsDelete:
			c.Status = file.StatusDeleted
			c.Path = f.OldName
		case f.IsCopy:
			c.Status = file.StatusCopied
			c.PriorPath = f.OldName
		case f.IsRename:
			c.Status = file.StatusRenamed
			c.PriorPath = f.OldName
		default:
			c.Status = file.StatusModified
		}
		if c.Path == "" {
			c.Path = f.OldName
		}

		for _, frag := range f.TextFragments {
			c.Added += int(frag.LinesAdded)
			c.Deleted += int(frag.LinesDeleted)
		}

		changes = append(changes, c)
	}

	return changes, nil
}

// GitDiff runs `git diff` with the given arguments and returns the raw output.
func GitDiff(ctx context.Context, repoDir string, args ...string) (string, error) {
	cmdArgs := append([]string{"diff", "--no-color", "--no-ext-diff", "--src-prefix=a/", "--dst-prefix=b/"}, args...)
	cmd := exec.CommandContext(ctx, "git", cmdArgs...)
	cmd.Dir = repoDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return string(out), nil
}

// GitDiffCached returns the diff of the index against HEAD, with renames
// and copies detected.
func GitDiffCached(ctx context.Context, repoDir string) (string, error) {
	return GitDiff(ctx, repoDir, "--cached", "-M", "-C")
}
