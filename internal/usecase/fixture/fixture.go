// Package fixture seeds a complete pull-request scenario against a GitHub
// backend: a repository history built object by object, a feature branch,
// a pull request, and an initial review comment. Each Seed call returns a
// Fixture owned by the caller; there is no shared or package-level state,
// so concurrent seeds into different repositories do not interfere.
package fixture

import (
	"context"
	"fmt"
	"time"

	"prforge/internal/adapter/journal"
	"prforge/internal/domain"
)

// ObjectStore is the outbound port for git object and reference operations.
type ObjectStore interface {
	CreateBlob(ctx context.Context, owner, repo, content string, encoding domain.BlobEncoding) (domain.Blob, error)
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []domain.TreeEntry) (domain.Tree, error)
	CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (domain.Commit, error)
	GetReference(ctx context.Context, owner, repo, ref string) (domain.Reference, error)
	CreateReference(ctx context.Context, owner, repo, ref, sha string) (domain.Reference, error)
	UpdateReference(ctx context.Context, owner, repo, ref, sha string, force bool) (domain.Reference, error)
}

// PullService is the outbound port for pull request operations.
type PullService interface {
	CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (domain.PullRequest, error)
}

// CommentService is the outbound port for review comment operations.
type CommentService interface {
	CreateComment(ctx context.Context, owner, repo string, pullNumber int, body, commitSHA, path string, position int) (domain.ReviewComment, error)
}

// RepoService is the outbound port for repository lifecycle operations.
type RepoService interface {
	CreateRepository(ctx context.Context, name string, private, autoInit bool) (domain.Repository, error)
	DeleteRepository(ctx context.Context, owner, repo string) error
}

// Hasher verifies server-assigned object shas against locally computed ones.
type Hasher interface {
	VerifyBlob(blob domain.Blob) error
}

// Recorder journals seeding progress with monotonic sequence numbers.
type Recorder interface {
	StartSeed(ctx context.Context, seed journal.Seed) error
	SetPullNumber(ctx context.Context, seedID string, pullNumber int) error
	RecordEvent(ctx context.Context, seedID, kind, objectID string) (int64, error)
}

// Logger provides structured logging for the seeding use case.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// Dependencies wires the orchestrator's outbound ports.
type Dependencies struct {
	Objects  ObjectStore
	Pulls    PullService
	Comments CommentService
	Repos    RepoService
	Hasher   Hasher   // Optional: local sha verification for created blobs
	Recorder Recorder // Optional: journals every created object in order
	Logger   Logger   // Optional: structured progress logging
}

// Orchestrator runs seeding scenarios.
type Orchestrator struct {
	deps Dependencies
}

// NewOrchestrator constructs a seeding orchestrator.
func NewOrchestrator(deps Dependencies) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// SeedRequest describes the scenario to build.
type SeedRequest struct {
	Owner string
	Repo  string

	// CreateRepo provisions the repository first. When false the
	// repository must already exist and be empty of the branch names used.
	CreateRepo  bool
	PrivateRepo bool

	// BaseBranch is the branch the pull request targets. Defaults to "master".
	BaseBranch string
	// FeatureBranch is the branch the pull request comes from.
	// Defaults to "feature/contributing".
	FeatureBranch string

	// SeedID identifies this run in the journal. Defaults to a
	// timestamp-derived id.
	SeedID string
}

// Fixture is the result of a completed seed. The caller owns it outright
// and is responsible for tearing it down.
type Fixture struct {
	Owner string
	Repo  string

	BaseBranch    string
	FeatureBranch string

	BaseCommit    domain.Commit
	FeatureCommit domain.Commit
	PullRequest   domain.PullRequest
	Comment       domain.ReviewComment

	SeedID string
}

const (
	readmeContent       = "Hello World!"
	readmePath          = "README.md"
	contributingContent = "Please follow the contribution guidelines.\n"
	contributingPath    = "CONTRIBUTING.md"
	baseCommitMessage   = "A master commit message"
	branchCommitMessage = "Add contributing guidelines"
	pullTitle           = "Add contributing guidelines"
	pullBody            = "Adds a CONTRIBUTING.md describing the workflow."
	commentBody         = "Consider linking the code of conduct here."
)

// Seed builds the full scenario and returns the resulting fixture.
// Partially created objects are left in place on error; the error reports
// which step failed.
func (o *Orchestrator) Seed(ctx context.Context, req SeedRequest) (*Fixture, error) {
	if req.Owner == "" || req.Repo == "" {
		return nil, fmt.Errorf("seed request requires owner and repo")
	}
	if req.BaseBranch == "" {
		req.BaseBranch = "master"
	}
	if req.FeatureBranch == "" {
		req.FeatureBranch = "feature/contributing"
	}
	if req.SeedID == "" {
		req.SeedID = fmt.Sprintf("seed-%d", time.Now().UnixNano())
	}

	if o.deps.Recorder != nil {
		err := o.deps.Recorder.StartSeed(ctx, journal.Seed{
			SeedID:    req.SeedID,
			Owner:     req.Owner,
			Repo:      req.Repo,
			StartedAt: time.Now(),
		})
		if err != nil {
			return nil, fmt.Errorf("start journal: %w", err)
		}
	}

	if req.CreateRepo {
		repo, err := o.deps.Repos.CreateRepository(ctx, req.Repo, req.PrivateRepo, false)
		if err != nil {
			return nil, fmt.Errorf("create repository: %w", err)
		}
		o.record(ctx, req.SeedID, journal.EventRepository, repo.FullName())
		o.logInfo(ctx, "created repository", map[string]interface{}{"repo": repo.FullName()})
	}

	baseCommit, err := o.seedBaseHistory(ctx, req)
	if err != nil {
		return nil, err
	}

	featureCommit, err := o.seedFeatureBranch(ctx, req, baseCommit)
	if err != nil {
		return nil, err
	}

	pr, err := o.deps.Pulls.CreatePullRequest(ctx, req.Owner, req.Repo,
		pullTitle, pullBody, req.FeatureBranch, req.BaseBranch)
	if err != nil {
		return nil, fmt.Errorf("create pull request: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventPull, fmt.Sprintf("%d", pr.Number))
	if o.deps.Recorder != nil {
		if err := o.deps.Recorder.SetPullNumber(ctx, req.SeedID, pr.Number); err != nil {
			o.logWarning(ctx, "failed to journal pull number", map[string]interface{}{
				"seed_id": req.SeedID,
				"error":   err.Error(),
			})
		}
	}
	o.logInfo(ctx, "opened pull request", map[string]interface{}{
		"number": pr.Number,
		"head":   pr.Head,
		"base":   pr.Base,
	})

	comment, err := o.deps.Comments.CreateComment(ctx, req.Owner, req.Repo,
		pr.Number, commentBody, featureCommit.SHA, contributingPath, 1)
	if err != nil {
		return nil, fmt.Errorf("create review comment: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventComment, fmt.Sprintf("%d", comment.ID))

	return &Fixture{
		Owner:         req.Owner,
		Repo:          req.Repo,
		BaseBranch:    req.BaseBranch,
		FeatureBranch: req.FeatureBranch,
		BaseCommit:    baseCommit,
		FeatureCommit: featureCommit,
		PullRequest:   pr,
		Comment:       comment,
		SeedID:        req.SeedID,
	}, nil
}

// seedBaseHistory creates the root commit and points the base branch at it.
func (o *Orchestrator) seedBaseHistory(ctx context.Context, req SeedRequest) (domain.Commit, error) {
	blob, err := o.createBlob(ctx, req, readmeContent)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create base blob: %w", err)
	}

	tree, err := o.deps.Objects.CreateTree(ctx, req.Owner, req.Repo, "", []domain.TreeEntry{
		{Path: readmePath, Mode: domain.ModeFile, Type: domain.EntryBlob, SHA: blob.SHA},
	})
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create base tree: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventTree, tree.SHA)

	commit, err := o.deps.Objects.CreateCommit(ctx, req.Owner, req.Repo,
		baseCommitMessage, tree.SHA, nil)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create base commit: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventCommit, commit.SHA)

	if err := o.pointBranch(ctx, req, "heads/"+req.BaseBranch, commit.SHA); err != nil {
		return domain.Commit{}, err
	}

	return commit, nil
}

// seedFeatureBranch layers the CONTRIBUTING.md commit on top of the base
// commit and creates the feature branch.
func (o *Orchestrator) seedFeatureBranch(ctx context.Context, req SeedRequest, base domain.Commit) (domain.Commit, error) {
	blob, err := o.createBlob(ctx, req, contributingContent)
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create feature blob: %w", err)
	}

	tree, err := o.deps.Objects.CreateTree(ctx, req.Owner, req.Repo, base.TreeSHA, []domain.TreeEntry{
		{Path: contributingPath, Mode: domain.ModeFile, Type: domain.EntryBlob, SHA: blob.SHA},
	})
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create feature tree: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventTree, tree.SHA)

	commit, err := o.deps.Objects.CreateCommit(ctx, req.Owner, req.Repo,
		branchCommitMessage, tree.SHA, []string{base.SHA})
	if err != nil {
		return domain.Commit{}, fmt.Errorf("create feature commit: %w", err)
	}
	o.record(ctx, req.SeedID, journal.EventCommit, commit.SHA)

	if err := o.pointBranch(ctx, req, "heads/"+req.FeatureBranch, commit.SHA); err != nil {
		return domain.Commit{}, err
	}

	return commit, nil
}

func (o *Orchestrator) createBlob(ctx context.Context, req SeedRequest, content string) (domain.Blob, error) {
	blob, err := o.deps.Objects.CreateBlob(ctx, req.Owner, req.Repo, content, domain.EncodingUTF8)
	if err != nil {
		return domain.Blob{}, err
	}
	if o.deps.Hasher != nil {
		if err := o.deps.Hasher.VerifyBlob(blob); err != nil {
			return domain.Blob{}, err
		}
	}
	o.record(ctx, req.SeedID, journal.EventBlob, blob.SHA)
	return blob, nil
}

// pointBranch creates the ref, or force-moves it when it already exists.
// Seeding always overwrites: the fixture's history is the authority.
func (o *Orchestrator) pointBranch(ctx context.Context, req SeedRequest, ref, sha string) error {
	if _, err := o.deps.Objects.CreateReference(ctx, req.Owner, req.Repo, ref, sha); err != nil {
		if _, uerr := o.deps.Objects.UpdateReference(ctx, req.Owner, req.Repo, ref, sha, true); uerr != nil {
			return fmt.Errorf("point %s at %s: %w", ref, sha, uerr)
		}
	}
	o.record(ctx, req.SeedID, journal.EventRef, ref)
	return nil
}

// Teardown deletes the fixture's repository. Callers that seeded into a
// pre-existing repository should not call it.
func (o *Orchestrator) Teardown(ctx context.Context, f *Fixture) error {
	if f == nil {
		return nil
	}
	if err := o.deps.Repos.DeleteRepository(ctx, f.Owner, f.Repo); err != nil {
		return fmt.Errorf("delete repository %s/%s: %w", f.Owner, f.Repo, err)
	}
	return nil
}

func (o *Orchestrator) record(ctx context.Context, seedID, kind, objectID string) {
	if o.deps.Recorder == nil {
		return
	}
	if _, err := o.deps.Recorder.RecordEvent(ctx, seedID, kind, objectID); err != nil {
		o.logWarning(ctx, "failed to journal event", map[string]interface{}{
			"seed_id": seedID,
			"kind":    kind,
			"error":   err.Error(),
		})
	}
}

func (o *Orchestrator) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, msg, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, msg string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, msg, fields)
	}
}
