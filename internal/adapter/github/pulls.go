package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"prforge/internal/adapter/httpx"
	"prforge/internal/domain"
)

// CreatePullRequest opens a pull request from head into base. Identical
// head and base branches are rejected before any request; an open pull
// request already covering the same branch pair is reported by the
// service as a validation error.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (domain.PullRequest, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.PullRequest{}, err
	}
	if title == "" {
		return domain.PullRequest{}, httpx.NewValidationError(providerName, "pull request title must not be empty")
	}
	if head == "" || base == "" {
		return domain.PullRequest{}, httpx.NewValidationError(providerName, "head and base branches must be set")
	}
	if head == base {
		return domain.PullRequest{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("head and base must differ, both are %q", head))
	}

	reqBody, err := json.Marshal(pullCreateRequest{Title: title, Body: body, Head: head, Base: base})
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("marshal pull request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	respBody, err := c.doRequest(ctx, "POST", apiURL, reqBody)
	if err != nil {
		return domain.PullRequest{}, err
	}

	return parsePullRequest(respBody)
}

// GetPullRequest fetches a pull request by number.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (domain.PullRequest, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.PullRequest{}, err
	}
	if number <= 0 {
		return domain.PullRequest{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid pull request number %d", number))
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.Itoa(number))

	respBody, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.PullRequest{}, err
	}

	return parsePullRequest(respBody)
}

func parsePullRequest(respBody []byte) (domain.PullRequest, error) {
	var resp pullResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.PullRequest{}, fmt.Errorf("parse pull request response: %w", err)
	}

	return domain.PullRequest{
		Number:  resp.Number,
		Title:   resp.Title,
		Body:    resp.Body,
		Head:    resp.Head.Ref,
		Base:    resp.Base.Ref,
		State:   resp.State,
		HeadSHA: resp.Head.SHA,
	}, nil
}
