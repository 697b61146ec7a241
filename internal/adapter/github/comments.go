package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"prforge/internal/adapter/httpx"
	"prforge/internal/domain"
)

// CreateComment posts a review comment anchored to a line position of a
// file in the pull request diff.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, pullNumber int, body, commitSHA, path string, position int) (domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.ReviewComment{}, err
	}
	if pullNumber <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid pull request number %d", pullNumber))
	}
	if body == "" {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName, "comment body must not be empty")
	}
	if commitSHA == "" {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName, "comment commit sha must not be empty")
	}
	if path == "" {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName, "comment path must not be empty")
	}
	if position <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid diff position %d", position))
	}

	reqBody, err := json.Marshal(commentCreateRequest{
		Body:     body,
		CommitID: commitSHA,
		Path:     path,
		Position: position,
	})
	if err != nil {
		return domain.ReviewComment{}, fmt.Errorf("marshal comment request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%s/comments",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.Itoa(pullNumber))

	respBody, err := c.doRequest(ctx, "POST", apiURL, reqBody)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	return parseComment(respBody)
}

// ReplyComment posts a reply to an existing review comment. The reply
// inherits the parent's file and position anchor, so only the body and the
// parent id go over the wire.
func (c *Client) ReplyComment(ctx context.Context, owner, repo string, pullNumber int, parentID int64, body string) (domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.ReviewComment{}, err
	}
	if pullNumber <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid pull request number %d", pullNumber))
	}
	if parentID <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid parent comment id %d", parentID))
	}
	if body == "" {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName, "reply body must not be empty")
	}

	reqBody, err := json.Marshal(commentReplyRequest{Body: body, InReplyTo: parentID})
	if err != nil {
		return domain.ReviewComment{}, fmt.Errorf("marshal reply request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%s/comments",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.Itoa(pullNumber))

	respBody, err := c.doRequest(ctx, "POST", apiURL, reqBody)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	return parseComment(respBody)
}

// GetComment fetches a single review comment by its id.
func (c *Client) GetComment(ctx context.Context, owner, repo string, commentID int64) (domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.ReviewComment{}, err
	}
	if commentID <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid comment id %d", commentID))
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.FormatInt(commentID, 10))

	respBody, err := c.doRequest(ctx, "GET", apiURL, nil)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	return parseComment(respBody)
}

// EditComment replaces the body of an existing review comment. The anchor
// and authorship are unchanged; the service bumps the updated timestamp.
func (c *Client) EditComment(ctx context.Context, owner, repo string, commentID int64, body string) (domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return domain.ReviewComment{}, err
	}
	if commentID <= 0 {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid comment id %d", commentID))
	}
	if body == "" {
		return domain.ReviewComment{}, httpx.NewValidationError(providerName, "comment body must not be empty")
	}

	reqBody, err := json.Marshal(commentEditRequest{Body: body})
	if err != nil {
		return domain.ReviewComment{}, fmt.Errorf("marshal edit request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.FormatInt(commentID, 10))

	respBody, err := c.doRequest(ctx, "PATCH", apiURL, reqBody)
	if err != nil {
		return domain.ReviewComment{}, err
	}

	return parseComment(respBody)
}

// DeleteComment removes a review comment. Deleting an unknown or already
// deleted comment returns a not-found error rather than succeeding
// silently.
func (c *Client) DeleteComment(ctx context.Context, owner, repo string, commentID int64) error {
	if err := validateRepoPath(owner, repo); err != nil {
		return err
	}
	if commentID <= 0 {
		return httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid comment id %d", commentID))
	}

	apiURL := fmt.Sprintf("%s/repos/%s/%s/pulls/comments/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.FormatInt(commentID, 10))

	_, err := c.doRequest(ctx, "DELETE", apiURL, nil)
	return err
}

// ListPullRequestComments returns every review comment on a pull request,
// following pagination, in ascending creation order.
func (c *Client) ListPullRequestComments(ctx context.Context, owner, repo string, pullNumber int) ([]domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return nil, err
	}
	if pullNumber <= 0 {
		return nil, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid pull request number %d", pullNumber))
	}

	firstURL := fmt.Sprintf("%s/repos/%s/%s/pulls/%s/comments?per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), strconv.Itoa(pullNumber), perPage)

	comments, err := c.collectComments(ctx, firstURL)
	if err != nil {
		return nil, err
	}

	domain.SortComments(comments, domain.Ascending)
	return comments, nil
}

// ListRepositoryComments returns review comments across all pull requests
// of a repository, ordered by creation time in the requested direction.
// Comments created in the same instant keep a stable order either way:
// the server-assigned id breaks the tie, and descending is the exact
// reverse of ascending.
func (c *Client) ListRepositoryComments(ctx context.Context, owner, repo string, direction domain.SortDirection) ([]domain.ReviewComment, error) {
	if err := validateRepoPath(owner, repo); err != nil {
		return nil, err
	}
	if !direction.Valid() {
		return nil, httpx.NewValidationError(providerName,
			fmt.Sprintf("invalid sort direction %q (want %q or %q)", direction, domain.Ascending, domain.Descending))
	}

	firstURL := fmt.Sprintf("%s/repos/%s/%s/pulls/comments?sort=created&direction=%s&per_page=%d",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), direction, perPage)

	comments, err := c.collectComments(ctx, firstURL)
	if err != nil {
		return nil, err
	}

	domain.SortComments(comments, direction)
	return comments, nil
}

func (c *Client) collectComments(ctx context.Context, firstURL string) ([]domain.ReviewComment, error) {
	var comments []domain.ReviewComment

	err := c.collectPages(ctx, firstURL, func(page []byte) error {
		var resps []commentResponse
		if err := json.Unmarshal(page, &resps); err != nil {
			return fmt.Errorf("parse comments page: %w", err)
		}
		for _, r := range resps {
			comments = append(comments, commentFromResponse(r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

func parseComment(respBody []byte) (domain.ReviewComment, error) {
	var resp commentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.ReviewComment{}, fmt.Errorf("parse comment response: %w", err)
	}
	return commentFromResponse(resp), nil
}

func commentFromResponse(resp commentResponse) domain.ReviewComment {
	return domain.ReviewComment{
		ID:         resp.ID,
		PullNumber: pullNumberFromURL(resp.PullRequestURL),
		Body:       resp.Body,
		Path:       resp.Path,
		Position:   resp.Position,
		CommitSHA:  resp.CommitID,
		Author:     resp.User.Login,
		InReplyTo:  resp.InReplyToID,
		CreatedAt:  resp.CreatedAt,
		UpdatedAt:  resp.UpdatedAt,
	}
}

// pullNumberFromURL extracts the trailing number from a pull request API
// URL like ".../repos/o/r/pulls/17". Returns 0 when the URL is absent or
// malformed.
func pullNumberFromURL(apiURL string) int {
	if apiURL == "" {
		return 0
	}
	idx := strings.LastIndex(apiURL, "/")
	if idx < 0 || idx == len(apiURL)-1 {
		return 0
	}
	n, err := strconv.Atoi(apiURL[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
