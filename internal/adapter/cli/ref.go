package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func refCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ref",
		Short: "Manage git references",
	}
	cmd.AddCommand(refGetCommand(deps, scope))
	cmd.AddCommand(refCreateCommand(deps, scope))
	cmd.AddCommand(refUpdateCommand(deps, scope))
	return cmd
}

func refGetCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <ref>",
		Short: "Resolve a reference to its target sha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			ref, err := deps.Objects.GetReference(cmd.Context(), owner, repo, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", ref.Ref, ref.SHA)
			return nil
		},
	}
	return cmd
}

func refCreateCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var sha string

	cmd := &cobra.Command{
		Use:   "create <ref>",
		Short: "Create a reference pointing at a sha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			ref, err := deps.Objects.CreateReference(cmd.Context(), owner, repo, args[0], sha)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s -> %s\n", ref.Ref, ref.SHA)
			return nil
		},
	}

	cmd.Flags().StringVar(&sha, "sha", "", "Target commit sha")
	_ = cmd.MarkFlagRequired("sha")

	return cmd
}

func refUpdateCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var sha string
	var fastForwardOnly bool

	cmd := &cobra.Command{
		Use:   "update <ref>",
		Short: "Move a reference to a new sha",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			ref, err := deps.Objects.UpdateReference(cmd.Context(), owner, repo, args[0], sha, !fastForwardOnly)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s -> %s\n", ref.Ref, ref.SHA)
			return nil
		},
	}

	cmd.Flags().StringVar(&sha, "sha", "", "Target commit sha")
	cmd.Flags().BoolVar(&fastForwardOnly, "ff-only", false, "Fail instead of force-moving on a non-fast-forward update")
	_ = cmd.MarkFlagRequired("sha")

	return cmd
}
