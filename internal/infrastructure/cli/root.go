package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/gai-go/internal/app"
	"github.com/doeshing/gai-go/internal/version"
)

// NewRootCmd wires the cobra root command. Only augmented commands and help
// reach cobra; everything else is forwarded to git before parsing.
func NewRootCmd(container *app.Container) *cobra.Command {
	container.Workflow.Prompter = NewPrompter(nil, nil)
	container.Workflow.Output = NewRenderer(nil, nil)

	root := &cobra.Command{
		Use:   "gai <command> [flags]",
		Short: "gai - git with generated messages",
		Long: `gai wraps git. commit, stash, log, blame, review and submit ask a language
model to write or explain text from your repository; every other command is
passed to git unchanged.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	// `gai help` and `gai completion` belong to git.
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	// Parsed by main before the container is built; declared so cobra accepts it.
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newCommitCommand(container))
	root.AddCommand(newStashCommand(container))
	root.AddCommand(newLogCommand(container))
	root.AddCommand(newBlameCommand(container))
	root.AddCommand(newReviewCommand(container))
	root.AddCommand(newSubmitCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newTestCommand(container))
	return root
}
