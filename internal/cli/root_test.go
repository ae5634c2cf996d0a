package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout and the exit
// code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configPath, workDir, verbose = "", ".", false
	})
	code := Execute()
	return out.String(), code
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"check", "review", "commit-msg", "hook", "rules", "version"} {
		assert.True(t, names[want], "root command missing subcommand %q", want)
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	assert.Equal(t, "dev", version)

	out, code := execute(t, "version")
	assert.Equal(t, ExitClean, code)
	assert.Equal(t, "static-review dev (commit none, built unknown)\n", out)
}

func TestRulesOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cfg.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("skip: [schema]\n"), 0o644))

	out, code := execute(t, "rules", "--dir", dir, "--config", cfg)
	assert.Equal(t, ExitClean, code)
	assert.Contains(t, out, "no-commit")
	assert.Contains(t, out, "commit-subject")
	assert.Regexp(t, `schema\s+.*\(skipped\)`, out)
}

func TestUnknownCommandIsAnError(t *testing.T) {
	_, code := execute(t, "frobnicate")
	assert.Equal(t, ExitError, code)
}
