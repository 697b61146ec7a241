package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"prforge/internal/domain"
	"prforge/internal/usecase/fixture"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ObjectClient defines the git object and reference operations the CLI needs.
type ObjectClient interface {
	GetReference(ctx context.Context, owner, repo, ref string) (domain.Reference, error)
	CreateReference(ctx context.Context, owner, repo, ref, sha string) (domain.Reference, error)
	UpdateReference(ctx context.Context, owner, repo, ref, sha string, force bool) (domain.Reference, error)
	GetCommit(ctx context.Context, owner, repo, sha string) (domain.Commit, error)
}

// PullClient defines the pull request operations the CLI needs.
type PullClient interface {
	CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (domain.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (domain.PullRequest, error)
}

// CommentClient defines the review comment operations the CLI needs.
type CommentClient interface {
	CreateComment(ctx context.Context, owner, repo string, pullNumber int, body, commitSHA, path string, position int) (domain.ReviewComment, error)
	GetComment(ctx context.Context, owner, repo string, commentID int64) (domain.ReviewComment, error)
	EditComment(ctx context.Context, owner, repo string, commentID int64, body string) (domain.ReviewComment, error)
	DeleteComment(ctx context.Context, owner, repo string, commentID int64) error
	ReplyComment(ctx context.Context, owner, repo string, pullNumber int, parentID int64, body string) (domain.ReviewComment, error)
	ListPullRequestComments(ctx context.Context, owner, repo string, pullNumber int) ([]domain.ReviewComment, error)
	ListRepositoryComments(ctx context.Context, owner, repo string, direction domain.SortDirection) ([]domain.ReviewComment, error)
}

// Seeder defines the fixture operations the CLI needs.
type Seeder interface {
	Seed(ctx context.Context, req fixture.SeedRequest) (*fixture.Fixture, error)
	Teardown(ctx context.Context, f *fixture.Fixture) error
}

// Arguments encapsulates IO streams injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
	InReader  io.Reader
}

// FixtureDefaults holds fixture settings from config.
type FixtureDefaults struct {
	Owner         string
	Repo          string
	BaseBranch    string
	FeatureBranch string
	CreateRepo    bool
	PrivateRepo   bool
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Objects         ObjectClient
	Pulls           PullClient
	Comments        CommentClient
	Seeder          Seeder
	Args            Arguments
	DefaultOwner    string
	DefaultRepo     string
	FixtureDefaults FixtureDefaults
	Version         string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "prforge",
		Short: "GitHub pull request and review comment client",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	var owner string
	var repo string
	root.PersistentFlags().StringVar(&owner, "owner", deps.DefaultOwner, "Repository owner")
	root.PersistentFlags().StringVar(&repo, "repo", deps.DefaultRepo, "Repository name")

	scope := func() (string, string, error) {
		if owner == "" || repo == "" {
			return "", "", fmt.Errorf("--owner and --repo are required; set them on the command line or in config")
		}
		return owner, repo, nil
	}

	root.AddCommand(commentCommand(deps, scope))
	root.AddCommand(pullCommand(deps, scope))
	root.AddCommand(refCommand(deps, scope))
	root.AddCommand(fixtureCommand(deps, scope))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}
