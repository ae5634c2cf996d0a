package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/staticreview/internal/vcs"
)

// hookMarker identifies hook scripts written by static-review.
const hookMarker = "# installed by static-review"

// hookScripts are the hooks static-review can install. Exit status 1
// (warnings only) lets the commit through.
var hookScripts = map[string]string{
	"pre-commit": `#!/bin/sh
` + hookMarker + `
static-review check
status=$?
[ "$status" -eq 1 ] && exit 0
exit $status
`,
	"commit-msg": `#!/bin/sh
` + hookMarker + `
static-review commit-msg "$1"
status=$?
[ "$status" -eq 1 ] && exit 0
exit $status
`,
}

// hookState describes what is installed for a hook.
type hookState string

const (
	hookMissing   hookState = "not installed"
	hookInstalled hookState = "installed"
	hookForeign   hookState = "another hook is installed"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git hooks that run static-review",
}

var hookInstallCmd = &cobra.Command{
	Use:       "install [pre-commit|commit-msg]...",
	Short:     "Install git hooks (default: pre-commit and commit-msg)",
	ValidArgs: hookNames(),
	Args:      cobra.OnlyValidArgs,
	RunE:      runHookInstall,
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which hooks are installed",
	Args:  cobra.NoArgs,
	RunE:  runHookList,
}

func init() {
	hookInstallCmd.Flags().Bool("force", false, "replace hooks not written by static-review")
	hookCmd.AddCommand(hookInstallCmd, hookListCmd)
}

func hookNames() []string {
	names := lo.Keys(hookScripts)
	slices.Sort(names)
	return names
}

func hooksDir() (string, error) {
	repo, err := vcs.Open(workDir, nil)
	if err != nil {
		return "", err
	}
	return repo.HooksDir()
}

func runHookInstall(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	names := lo.Uniq(args)
	if len(names) == 0 {
		names = hookNames()
	}

	dir, err := hooksDir()
	if err != nil {
		return err
	}
	for _, name := range names {
		path, err := installHook(dir, name, force)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Installed %s hook at %s\n", name, path)
	}
	return nil
}

func runHookList(cmd *cobra.Command, _ []string) error {
	dir, err := hooksDir()
	if err != nil {
		return err
	}
	for _, name := range hookNames() {
		state, err := inspectHook(dir, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", name, state)
	}
	return nil
}

// inspectHook reports whether the hook name in dir is ours.
func inspectHook(dir, name string) (hookState, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	switch {
	case os.IsNotExist(err):
		return hookMissing, nil
	case err != nil:
		return "", fmt.Errorf("reading %s hook: %w", name, err)
	case strings.Contains(string(data), hookMarker):
		return hookInstalled, nil
	default:
		return hookForeign, nil
	}
}

// installHook writes the script for name into dir. A hook written by
// someone else is only replaced when force is set.
func installHook(dir, name string, force bool) (string, error) {
	script, ok := hookScripts[name]
	if !ok {
		return "", fmt.Errorf("unknown hook %q", name)
	}

	state, err := inspectHook(dir, name)
	if err != nil {
		return "", err
	}
	if state == hookForeign && !force {
		return "", fmt.Errorf("a %s hook already exists; use --force to replace it", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("writing %s hook: %w", name, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("writing %s hook: %w", name, err)
	}
	return path, nil
}
