package ctxdump

import (
	"embed"
	"fmt"
	"os"

	"github.com/arthur-debert/ctxdump/pkg/cobrax/topics"
	"github.com/arthur-debert/ctxdump/pkg/errors"
	"github.com/arthur-debert/ctxdump/pkg/logging"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// initTopics installs the topic-aware help command on root
func initTopics(rootCmd *cobra.Command) *topics.TopicManager {
	tm, err := topics.InitializeWithOptions(rootCmd, topicFiles, "topics", topics.Options{
		Extensions: []string{".md", ".txt"},
		Renderer:   topics.ForOutput(os.Stdout),
	})
	if err != nil {
		logger := logging.GetLogger("cmd")
		logger.Warn().Err(err).Msg("Help topics unavailable")
		return nil
	}
	return tm
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if tm == nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return tm.ListTopics(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if tm == nil {
				return errors.New(errors.ErrInternal, "help topics are unavailable")
			}
			if len(args) == 0 {
				tm.WriteTopicList(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			topic, ok := tm.GetTopic(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, "no help topic named %q", args[0]).
					WithDetail("topic", args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), tm.Render(topic))
			return err
		},
	}
}
