package cli

import (
	"github.com/spf13/cobra"
)

func pullCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Manage pull requests",
	}
	cmd.AddCommand(pullCreateCommand(deps, scope))
	cmd.AddCommand(pullGetCommand(deps, scope))
	return cmd
}

func pullCreateCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var title string
	var body string
	var head string
	var base string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a pull request",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			pr, err := deps.Pulls.CreatePullRequest(cmd.Context(), owner, repo, title, body, head, base)
			if err != nil {
				return err
			}
			renderPullRequest(cmd.OutOrStdout(), pr)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Pull request title")
	cmd.Flags().StringVar(&body, "body", "", "Pull request body")
	cmd.Flags().StringVar(&head, "head", "", "Branch the changes come from")
	cmd.Flags().StringVar(&base, "base", "", "Branch the changes merge into")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("head")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func pullGetCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var number int

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a pull request",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			pr, err := deps.Pulls.GetPullRequest(cmd.Context(), owner, repo, number)
			if err != nil {
				return err
			}
			renderPullRequest(cmd.OutOrStdout(), pr)
			return nil
		},
	}

	cmd.Flags().IntVar(&number, "number", 0, "Pull request number")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}
