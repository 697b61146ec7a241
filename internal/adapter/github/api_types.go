package github

import "time"

// Wire shapes for the GitHub Git Data and Pulls APIs.
// See: https://docs.github.com/en/rest/git and https://docs.github.com/en/rest/pulls

// blobRequest is the body for POST /repos/{owner}/{repo}/git/blobs.
type blobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// blobResponse is the response from blob creation.
type blobResponse struct {
	SHA string `json:"sha"`
}

// treeEntry is a single entry in a tree request or response.
type treeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// treeRequest is the body for POST /repos/{owner}/{repo}/git/trees.
type treeRequest struct {
	BaseTree string      `json:"base_tree,omitempty"`
	Tree     []treeEntry `json:"tree"`
}

// treeResponse is the response from tree creation.
type treeResponse struct {
	SHA  string      `json:"sha"`
	Tree []treeEntry `json:"tree"`
}

// commitRequest is the body for POST /repos/{owner}/{repo}/git/commits.
type commitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

// commitResponse is the response from commit creation or lookup.
type commitResponse struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Tree    struct {
		SHA string `json:"sha"`
	} `json:"tree"`
	Parents []struct {
		SHA string `json:"sha"`
	} `json:"parents"`
	Author struct {
		Name  string    `json:"name"`
		Email string    `json:"email"`
		Date  time.Time `json:"date"`
	} `json:"author"`
}

// refCreateRequest is the body for POST /repos/{owner}/{repo}/git/refs.
type refCreateRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// refUpdateRequest is the body for PATCH /repos/{owner}/{repo}/git/refs/{ref}.
type refUpdateRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

// refResponse is the response for reference operations.
type refResponse struct {
	Ref    string `json:"ref"`
	Object struct {
		Type string `json:"type"`
		SHA  string `json:"sha"`
	} `json:"object"`
}

// pullCreateRequest is the body for POST /repos/{owner}/{repo}/pulls.
type pullCreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

// pullResponse is the response for pull request operations.
type pullResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	Head   struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

// commentCreateRequest is the body for POST /repos/{owner}/{repo}/pulls/{n}/comments.
type commentCreateRequest struct {
	Body     string `json:"body"`
	CommitID string `json:"commit_id"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

// commentReplyRequest creates a reply to an existing review comment.
// The anchor (path, position) is inherited from the parent; only the body
// and the parent id are sent.
type commentReplyRequest struct {
	Body      string `json:"body"`
	InReplyTo int64  `json:"in_reply_to"`
}

// commentEditRequest is the body for PATCH /repos/{owner}/{repo}/pulls/comments/{id}.
type commentEditRequest struct {
	Body string `json:"body"`
}

// commentResponse is the response for review comment operations.
type commentResponse struct {
	ID          int64  `json:"id"`
	Body        string `json:"body"`
	Path        string `json:"path"`
	Position    int    `json:"position"`
	CommitID    string `json:"commit_id"`
	InReplyToID int64  `json:"in_reply_to_id"`
	User        struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	PullRequestURL string    `json:"pull_request_url"`
}

// repoCreateRequest is the body for POST /user/repos.
type repoCreateRequest struct {
	Name     string `json:"name"`
	AutoInit bool   `json:"auto_init"`
	Private  bool   `json:"private"`
}

// repoResponse is the response for repository operations.
type repoResponse struct {
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// apiErrorResponse represents an error response from the GitHub API.
type apiErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
	Errors           []struct {
		Resource string `json:"resource"`
		Field    string `json:"field"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
