package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/gai-go/internal/app"
	"github.com/doeshing/gai-go/internal/application/workflow"
)

// parseKnownFlags parses the flags cmd declares and returns everything else
// in order, for git: unknown flags, their values, and all arguments after
// "--". Commands using it set DisableFlagParsing.
func parseKnownFlags(cmd *cobra.Command, args []string) (extra []string, help bool, err error) {
	flags := cmd.Flags()
	var known []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			extra = append(extra, args[i+1:]...)
			break
		}
		ok, needsValue := lookupFlag(cmd, arg)
		if !ok {
			extra = append(extra, arg)
			continue
		}
		known = append(known, arg)
		if needsValue && i+1 < len(args) {
			i++
			known = append(known, args[i])
		}
	}
	if err := flags.Parse(known); err != nil {
		return nil, false, err
	}
	help, _ = flags.GetBool("help")
	return extra, help, nil
}

// lookupFlag reports whether arg is a flag cmd declares and whether its
// value is the next argument. Grouped shorthands such as -ym are walked
// letter by letter.
func lookupFlag(cmd *cobra.Command, arg string) (ok, needsValue bool) {
	flags := cmd.Flags()
	if len(arg) < 2 || arg[0] != '-' {
		return false, false
	}
	if strings.HasPrefix(arg, "--") {
		name, _, inline := strings.Cut(arg[2:], "=")
		f := flags.Lookup(name)
		if f == nil {
			return false, false
		}
		return true, f.NoOptDefVal == "" && !inline
	}
	for j := 1; j < len(arg); j++ {
		f := flags.ShorthandLookup(arg[j : j+1])
		if f == nil {
			return false, false
		}
		if f.NoOptDefVal == "" {
			return true, j == len(arg)-1
		}
	}
	return true, false
}

func helpOr(cmd *cobra.Command, err error) error {
	if err != nil {
		return err
	}
	return cmd.Help()
}

func newCommitCommand(container *app.Container) *cobra.Command {
	var opts workflow.CommitOptions
	cmd := &cobra.Command{
		Use:                "commit [-y] [-m msg] [--date=<datetime>] [git-args...]",
		Short:              "Commit staged changes with a generated message",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, help, err := parseKnownFlags(cmd, args)
			if err != nil || help {
				return helpOr(cmd, err)
			}
			opts.Extra = extra
			return container.Workflow.Commit(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Accept the generated message without asking")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Use this message instead of generating one")
	cmd.Flags().StringVar(&opts.Date, "date", "", "Override author and committer date")
	return cmd
}

func newStashCommand(container *app.Container) *cobra.Command {
	var opts workflow.StashOptions
	cmd := &cobra.Command{
		Use:                "stash [-y] [-m msg] [git-args...]",
		Short:              "Stash changes under a generated name",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, help, err := parseKnownFlags(cmd, args)
			if err != nil || help {
				return helpOr(cmd, err)
			}
			opts.Extra = extra
			return container.Workflow.Stash(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Accept the generated message without asking")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Use this message instead of generating one")
	return cmd
}

func newLogCommand(container *app.Container) *cobra.Command {
	var opts workflow.LogOptions
	cmd := &cobra.Command{
		Use:   "log [-n N]",
		Short: "Summarize recent commits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Workflow.Log(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "Number of commits to summarize (default from config)")
	return cmd
}

func newBlameCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "blame <file> <line>",
		Short: "Explain why a line was last changed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("line must be a number: %q", args[1])
			}
			return container.Workflow.Blame(cmd.Context(), workflow.BlameOptions{File: args[0], Line: line})
		},
	}
}

func newReviewCommand(container *app.Container) *cobra.Command {
	var opts workflow.ReviewOptions
	cmd := &cobra.Command{
		Use:   "review [--unstaged]",
		Short: "Review staged changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Workflow.Review(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Unstaged, "unstaged", false, "Review unstaged changes instead")
	return cmd
}

func newSubmitCommand(container *app.Container) *cobra.Command {
	var opts workflow.SubmitOptions
	cmd := &cobra.Command{
		Use:                "submit [--draft] [-y] [--base branch] [gh-args...]",
		Short:              "Open a pull request with a generated description",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			extra, help, err := parseKnownFlags(cmd, args)
			if err != nil || help {
				return helpOr(cmd, err)
			}
			opts.Extra = extra
			return container.Workflow.Submit(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Draft, "draft", false, "Open the pull request as a draft")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Accept the generated description without asking")
	cmd.Flags().StringVar(&opts.Base, "base", "", "Base branch (default from config or the remote HEAD)")
	return cmd
}

func newConfigCommand(container *app.Container) *cobra.Command {
	var (
		opts   workflow.ConfigOptions
		prefix string
	)
	cmd := &cobra.Command{
		Use:   "config [--branch-prefix v] [--unset-branch-prefix] [--doctor]",
		Short: "Show or change gai settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("branch-prefix") {
				opts.BranchPrefix = &prefix
			}
			return container.Workflow.Settings(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&prefix, "branch-prefix", "", "Prefix for new branches; empty means no prefix")
	cmd.Flags().BoolVar(&opts.UnsetPrefix, "unset-branch-prefix", false, "Remove the branch prefix setting")
	cmd.Flags().BoolVar(&opts.Doctor, "doctor", false, "Check the environment")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Show changes from the default configuration")
	cmd.Flags().BoolVar(&opts.ClearUsage, "clear-usage", false, "Delete recorded usage")
	return cmd
}

func newTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run pre-commit hooks on all files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return container.Workflow.Test(cmd.Context())
		},
	}
}
