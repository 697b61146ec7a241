package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prforge/internal/domain"
)

// scopeFunc resolves the owner/repo pair from flags and config.
type scopeFunc func() (string, string, error)

func commentCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage pull request review comments",
	}
	cmd.AddCommand(commentCreateCommand(deps, scope))
	cmd.AddCommand(commentGetCommand(deps, scope))
	cmd.AddCommand(commentEditCommand(deps, scope))
	cmd.AddCommand(commentDeleteCommand(deps, scope))
	cmd.AddCommand(commentReplyCommand(deps, scope))
	cmd.AddCommand(commentListCommand(deps, scope))
	return cmd
}

func commentCreateCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var pullNumber int
	var body string
	var commitSHA string
	var path string
	var position int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a review comment on a pull request",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			comment, err := deps.Comments.CreateComment(cmd.Context(), owner, repo,
				pullNumber, body, commitSHA, path, position)
			if err != nil {
				return err
			}
			renderComment(cmd.OutOrStdout(), comment)
			return nil
		},
	}

	cmd.Flags().IntVar(&pullNumber, "pull", 0, "Pull request number")
	cmd.Flags().StringVar(&body, "body", "", "Comment body")
	cmd.Flags().StringVar(&commitSHA, "commit", "", "Commit sha the comment anchors to")
	cmd.Flags().StringVar(&path, "path", "", "File path within the diff")
	cmd.Flags().IntVar(&position, "position", 0, "Line position within the diff")
	_ = cmd.MarkFlagRequired("pull")
	_ = cmd.MarkFlagRequired("body")
	_ = cmd.MarkFlagRequired("commit")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

func commentGetCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var commentID int64

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show a review comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			comment, err := deps.Comments.GetComment(cmd.Context(), owner, repo, commentID)
			if err != nil {
				return err
			}
			renderComment(cmd.OutOrStdout(), comment)
			return nil
		},
	}

	cmd.Flags().Int64Var(&commentID, "id", 0, "Comment id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func commentEditCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var commentID int64
	var body string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the body of an existing review comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			comment, err := deps.Comments.EditComment(cmd.Context(), owner, repo, commentID, body)
			if err != nil {
				return err
			}
			renderComment(cmd.OutOrStdout(), comment)
			return nil
		},
	}

	cmd.Flags().Int64Var(&commentID, "id", 0, "Comment id")
	cmd.Flags().StringVar(&body, "body", "", "New comment body")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func commentDeleteCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var commentID int64
	var force bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a review comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			if !force && !confirmDelete(cmd, deps, commentID) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			if err := deps.Comments.DeleteComment(cmd.Context(), owner, repo, commentID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted comment %d\n", commentID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&commentID, "id", 0, "Comment id")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the interactive confirmation")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

// confirmDelete prompts on the terminal before a destructive delete.
// Non-interactive runs (CI, piped input) proceed without prompting.
func confirmDelete(cmd *cobra.Command, deps Dependencies, commentID int64) bool {
	if !IsInteractive() {
		return true
	}
	in := deps.Args.InReader
	if in == nil {
		in = os.Stdin
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "delete comment %d? [y/N] ", commentID)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func commentReplyCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var pullNumber int
	var parentID int64
	var body string

	cmd := &cobra.Command{
		Use:   "reply",
		Short: "Reply to an existing review comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			comment, err := deps.Comments.ReplyComment(cmd.Context(), owner, repo, pullNumber, parentID, body)
			if err != nil {
				return err
			}
			renderComment(cmd.OutOrStdout(), comment)
			return nil
		},
	}

	cmd.Flags().IntVar(&pullNumber, "pull", 0, "Pull request number")
	cmd.Flags().Int64Var(&parentID, "to", 0, "Id of the comment being replied to")
	cmd.Flags().StringVar(&body, "body", "", "Reply body")
	_ = cmd.MarkFlagRequired("pull")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func commentListCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	var pullNumber int
	var direction string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List review comments for a pull request or the whole repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}

			var comments []domain.ReviewComment
			if pullNumber > 0 {
				comments, err = deps.Comments.ListPullRequestComments(cmd.Context(), owner, repo, pullNumber)
			} else {
				comments, err = deps.Comments.ListRepositoryComments(cmd.Context(), owner, repo,
					domain.SortDirection(direction))
			}
			if err != nil {
				return err
			}

			renderComments(cmd.OutOrStdout(), comments)
			return nil
		},
	}

	cmd.Flags().IntVar(&pullNumber, "pull", 0, "Pull request number; omit to list across the repository")
	cmd.Flags().StringVar(&direction, "direction", string(domain.Ascending),
		"Sort direction for repository-wide listing (asc or desc)")

	return cmd
}
