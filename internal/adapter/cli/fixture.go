package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"prforge/internal/usecase/fixture"
)

func fixtureCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Seed and tear down pull request scenarios",
	}
	cmd.AddCommand(fixtureSeedCommand(deps, scope))
	return cmd
}

func fixtureSeedCommand(deps Dependencies, scope scopeFunc) *cobra.Command {
	defaults := deps.FixtureDefaults
	var baseBranch string
	var featureBranch string
	var createRepo bool
	var privateRepo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Build a repository with a pull request and an initial review comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := scope()
			if err != nil {
				return err
			}
			f, err := deps.Seeder.Seed(cmd.Context(), fixture.SeedRequest{
				Owner:         owner,
				Repo:          repo,
				CreateRepo:    createRepo,
				PrivateRepo:   privateRepo,
				BaseBranch:    baseBranch,
				FeatureBranch: featureBranch,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "seeded %s/%s\n", f.Owner, f.Repo)
			_, _ = fmt.Fprintf(out, "  base commit    %s (%s)\n", f.BaseCommit.SHA, f.BaseBranch)
			_, _ = fmt.Fprintf(out, "  feature commit %s (%s)\n", f.FeatureCommit.SHA, f.FeatureBranch)
			_, _ = fmt.Fprintf(out, "  pull request   #%d\n", f.PullRequest.Number)
			_, _ = fmt.Fprintf(out, "  comment        %d\n", f.Comment.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseBranch, "base", defaults.BaseBranch, "Base branch name")
	cmd.Flags().StringVar(&featureBranch, "feature", defaults.FeatureBranch, "Feature branch name")
	cmd.Flags().BoolVar(&createRepo, "create-repo", defaults.CreateRepo, "Create the repository before seeding")
	cmd.Flags().BoolVar(&privateRepo, "private", defaults.PrivateRepo, "Create the repository as private")

	return cmd
}
