package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"prforge/internal/adapter/httpx"
	"prforge/internal/domain"
)

// CreateBlob uploads raw content and returns the blob with its
// server-assigned content hash. Unsupported encodings are rejected before
// any request is made.
func (c *Client) CreateBlob(ctx context.Context, owner, repo string, content string, encoding domain.BlobEncoding) (domain.Blob, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Blob{}, err
	}
	if !encoding.Valid() {
		return domain.Blob{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("unsupported blob encoding %q (want %q or %q)", encoding, domain.EncodingUTF8, domain.EncodingBase64))
	}

	body, err := json.Marshal(blobRequest{Content: content, Encoding: string(encoding)})
	if err != nil {
		return domain.Blob{}, fmt.Errorf("marshal blob request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/blobs", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "POST", apiURL, body)
	if err != nil {
		return domain.Blob{}, err
	}

	var resp blobResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Blob{}, fmt.Errorf("parse blob response: %w", err)
	}

	return domain.Blob{SHA: resp.SHA, Content: content, Encoding: encoding}, nil
}

// CreateTree creates a tree from the given entries, optionally layered on
// top of baseTree. Each entry must reference a previously created object
// sha; duplicate paths are rejected before the request goes out, dangling
// shas surface as a validation error from the service.
func (c *Client) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []domain.TreeEntry) (domain.Tree, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Tree{}, err
	}
	if len(entries) == 0 {
		return domain.Tree{}, httpx.NewValidationError(providerName, "tree must contain at least one entry")
	}

	seen := make(map[string]bool, len(entries))
	wire := make([]treeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Path == "" {
			return domain.Tree{}, httpx.NewValidationError(providerName, "tree entry path must not be empty")
		}
		if seen[e.Path] {
			return domain.Tree{}, httpx.NewValidationError(providerName,
				fmt.Sprintf("duplicate path %q in tree", e.Path))
		}
		seen[e.Path] = true

		mode := e.Mode
		if mode == "" {
			mode = domain.ModeFile
		}
		entryType := e.Type
		if entryType == "" {
			entryType = domain.EntryBlob
		}
		wire = append(wire, treeEntry{
			Path: e.Path,
			Mode: mode,
			Type: string(entryType),
			SHA:  e.SHA,
		})
	}

	body, err := json.Marshal(treeRequest{BaseTree: baseTree, Tree: wire})
	if err != nil {
		return domain.Tree{}, fmt.Errorf("marshal tree request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/trees", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "POST", apiURL, body)
	if err != nil {
		return domain.Tree{}, err
	}

	var resp treeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Tree{}, fmt.Errorf("parse tree response: %w", err)
	}

	return domain.Tree{SHA: resp.SHA, Entries: entries}, nil
}

// CreateCommit creates a commit pointing at treeSHA with the given parents.
// An unknown parent sha is reported as a not-found error by the service.
func (c *Client) CreateCommit(ctx context.Context, owner, repo, message, treeSHA string, parents []string) (domain.Commit, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Commit{}, err
	}
	if treeSHA == "" {
		return domain.Commit{}, httpx.NewValidationError(providerName, "tree sha must not be empty")
	}
	if parents == nil {
		parents = []string{}
	}

	body, err := json.Marshal(commitRequest{Message: message, Tree: treeSHA, Parents: parents})
	if err != nil {
		return domain.Commit{}, fmt.Errorf("marshal commit request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/commits", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "POST", apiURL, body)
	if err != nil {
		return domain.Commit{}, err
	}

	return parseCommit(respBody)
}

// GetCommit fetches a single commit by sha.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (domain.Commit, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Commit{}, err
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/commits/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))

	respBody, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.Commit{}, err
	}

	return parseCommit(respBody)
}

func parseCommit(respBody []byte) (domain.Commit, error) {
	var resp commitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Commit{}, fmt.Errorf("parse commit response: %w", err)
	}

	parentSHAs := make([]string, 0, len(resp.Parents))
	for _, p := range resp.Parents {
		parentSHAs = append(parentSHAs, p.SHA)
	}

	return domain.Commit{
		SHA:        resp.SHA,
		Message:    resp.Message,
		TreeSHA:    resp.Tree.SHA,
		ParentSHAs: parentSHAs,
		AuthoredAt: resp.Author.Date,
	}, nil
}

// GetReference resolves a reference like "heads/master" to its target sha.
func (c *Client) GetReference(ctx context.Context, owner, repo, ref string) (domain.Reference, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Reference{}, err
	}
	if err := validateRefName(ref); err != nil {
		return domain.Reference{}, err
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/ref/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), escapeRef(ref))

	respBody, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.Reference{}, err
	}

	return parseReference(respBody)
}

// CreateReference creates a new reference pointing at sha. The ref is given
// in short form, e.g. "heads/new-branch".
func (c *Client) CreateReference(ctx context.Context, owner, repo, ref, sha string) (domain.Reference, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Reference{}, err
	}
	if err := validateRefName(ref); err != nil {
		return domain.Reference{}, err
	}
	if sha == "" {
		return domain.Reference{}, httpx.NewValidationError(providerName, "target sha must not be empty")
	}

	body, err := json.Marshal(refCreateRequest{Ref: "refs/" + ref, SHA: sha})
	if err != nil {
		return domain.Reference{}, fmt.Errorf("marshal ref request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/refs", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "POST", apiURL, body)
	if err != nil {
		return domain.Reference{}, err
	}

	return parseReference(respBody)
}

// UpdateReference advances an existing reference to a new target sha.
// With force=false the update is fast-forward-only and a non-fast-forward
// change is reported as a conflict; force=true always moves the pointer.
// History itself is never rewritten by a reference update.
func (c *Client) UpdateReference(ctx context.Context, owner, repo, ref, sha string, force bool) (domain.Reference, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Reference{}, err
	}
	if err := validateRefName(ref); err != nil {
		return domain.Reference{}, err
	}
	if sha == "" {
		return domain.Reference{}, httpx.NewValidationError(providerName, "target sha must not be empty")
	}

	body, err := json.Marshal(refUpdateRequest{SHA: sha, Force: force})
	if err != nil {
		return domain.Reference{}, fmt.Errorf("marshal ref request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/refs/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), escapeRef(ref))

	respBody, err := c.doRequest(ctx, "PATCH", apiURL, body)
	if err != nil {
		return domain.Reference{}, err
	}

	return parseReference(respBody)
}

func parseReference(respBody []byte) (domain.Reference, error) {
	var resp refResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Reference{}, fmt.Errorf("parse reference response: %w", err)
	}

	return domain.Reference{
		Ref: strings.TrimPrefix(resp.Ref, "refs/"),
		SHA: resp.Object.SHA,
	}, nil
}

func validateRepoPath(owner, repo string) error {
	if err := validatePathSegment(owner, "owner"); err != nil {
		return err
	}
	return validatePathSegment(repo, "repo")
}

// validateRefName accepts short refs like "heads/master" or "tags/v1".
func validateRefName(ref string) error {
	if ref == "" {
		return httpx.NewValidationError(providerName, "invalid ref: must not be empty")
	}
	if strings.HasPrefix(ref, "refs/") {
		return httpx.NewValidationError(providerName, "invalid ref: use the short form without the refs/ prefix")
	}
	for _, segment := range strings.Split(ref, "/") {
		if err := validatePathSegment(segment, "ref segment"); err != nil {
			return err
		}
	}
	return nil
}

// escapeRef escapes each ref segment while keeping the slashes literal,
// which is how the git refs endpoints expect them.
func escapeRef(ref string) string {
	segments := strings.Split(ref, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
