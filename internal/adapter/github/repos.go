package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"prforge/internal/domain"
)

// CreateRepository creates a repository for the authenticated user.
// autoInit seeds the repository with an initial commit so refs exist
// right away.
func (c *Client) CreateRepository(ctx context.Context, name string, private, autoInit bool) (domain.Repository, error) {
	if err := validatePathSegment(name, "repo"); err != nil {
		return domain.Repository{}, err
	}

	body, err := json.Marshal(repoCreateRequest{Name: name, AutoInit: autoInit, Private: private})
	if err != nil {
		return domain.Repository{}, fmt.Errorf("marshal repository request: %w", err)
	}

	apiURL := c.baseURL + "/user/repos"

	respBody, err := c.doRequest(ctx, "POST", apiURL, body)
	if err != nil {
		return domain.Repository{}, err
	}

	var resp repoResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Repository{}, fmt.Errorf("parse repository response: %w", err)
	}

	return domain.Repository{
		Owner:         resp.Owner.Login,
		Name:          resp.Name,
		DefaultBranch: resp.DefaultBranch,
		Private:       resp.Private,
	}, nil
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (domain.Repository, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.Repository{}, err
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.Repository{}, err
	}

	var resp repoResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.Repository{}, fmt.Errorf("parse repository response: %w", err)
	}

	return domain.Repository{
		Owner:         resp.Owner.Login,
		Name:          resp.Name,
		DefaultBranch: resp.DefaultBranch,
		Private:       resp.Private,
	}, nil
}

// DeleteRepository removes a repository. Used to tear down seeded fixture
// repositories; deleting an unknown repository returns a not-found error.
func (c *Client) DeleteRepository(ctx context.Context, owner, repo string) error {
	if err := validateRepoPath(owner, repo); err != nil {
		return err
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	_, err := c.doRequest(ctx, "DELETE", apiURL, nil)
	return err
}
