// Package cli implements the static-review command line.
package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitClean    = 0
	ExitWarnings = 1
	ExitFailed   = 2
	ExitError    = 3
)

var (
	// Global flags
	configPath string
	workDir    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "static-review",
	Short: "Run static checks against the files staged for commit",
	Long: `static-review reviews the files about to be committed: the staged
content of each file is checked by a set of rules and the issues found are
reported, either as a report or in an interactive browser.

Install it as a git hook with "static-review hook install".

Exit codes:
  0  clean, or only informational issues
  1  warnings found
  2  issues at or above the fail_on level (default: error)
  3  static-review itself failed`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: .static-review.yml in the repository root)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(checkCmd, reviewCmd, commitMsgCmd, hookCmd, rulesCmd, versionCmd)
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	if verbose || os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	} else {
		logger.SetLevel(logger.WarnLevel)
	}
	return nil
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitClean
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	logger.Errorf("static-review: %s", err)
	return ExitError
}
