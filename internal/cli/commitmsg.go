package cli

import (
	"slices"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sprite-ai/staticreview/internal/message"
	"github.com/sprite-ai/staticreview/internal/review"
)

var commitMsgCmd = &cobra.Command{
	Use:   "commit-msg <file>",
	Short: "Review a commit message",
	Long: `Review the commit message in <file>, as git passes it to the
commit-msg hook. Comment lines are ignored the way git ignores them.`,
	Args: cobra.ExactArgs(1),
	RunE: runCommitMsg,
}

func init() {
	commitMsgCmd.Flags().StringSlice("skip", nil, "rules to skip")
	commitMsgCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

func runCommitMsg(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}
	skip, _ := cmd.Flags().GetStringSlice("skip")

	msg, err := message.Load(args[0])
	if err != nil {
		return err
	}

	cfg, err := configForWorkDir()
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, skip, logger.StandardLogger())
	if err != nil {
		return err
	}
	report, err := engine.Review(cmd.Context(), review.Items(slices.Values([]*message.CommitMessage{msg})))
	if err != nil {
		return err
	}

	if err := printReport(cmd.OutOrStdout(), format, "Commit message: "+msg.Subject(), report); err != nil {
		return err
	}
	return finish(report, cfg)
}
