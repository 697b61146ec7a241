package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/github"
	"prforge/internal/adapter/httpx"
	"prforge/internal/domain"
)

func newTestClient(t *testing.T, server *httptest.Server) *github.Client {
	t.Helper()
	client := github.NewClient(github.NewTokenAuth("test-token"))
	client.SetBaseURL(server.URL)
	client.SetMaxRetries(0)
	return client
}

func TestCreateBlob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/octocat/demo/git/blobs", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello World!", req["content"])
		assert.Equal(t, "utf-8", req["encoding"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sha": "c57eff55ebc0c54973903af5f72bac72762cf4f4",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	blob, err := client.CreateBlob(context.Background(), "octocat", "demo", "Hello World!", domain.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "c57eff55ebc0c54973903af5f72bac72762cf4f4", blob.SHA)
	assert.Equal(t, "Hello World!", blob.Content)
	assert.Equal(t, domain.EncodingUTF8, blob.Encoding)
}

func TestCreateBlob_UnsupportedEncoding(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateBlob(context.Background(), "octocat", "demo", "data", domain.BlobEncoding("utf-16"))
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	assert.Equal(t, 0, requests, "unsupported encoding must be rejected before any request")
}

func TestCreateTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/demo/git/trees", r.URL.Path)

		var req struct {
			BaseTree string `json:"base_tree"`
			Tree     []struct {
				Path string `json:"path"`
				Mode string `json:"mode"`
				Type string `json:"type"`
				SHA  string `json:"sha"`
			} `json:"tree"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.BaseTree)
		require.Len(t, req.Tree, 1)
		assert.Equal(t, "README.md", req.Tree[0].Path)
		assert.Equal(t, "100644", req.Tree[0].Mode)
		assert.Equal(t, "blob", req.Tree[0].Type)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sha": "tree-sha-1"})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	tree, err := client.CreateTree(context.Background(), "octocat", "demo", "", []domain.TreeEntry{
		{Path: "README.md", Mode: domain.ModeFile, Type: domain.EntryBlob, SHA: "blob-sha"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tree-sha-1", tree.SHA)
}

func TestCreateTree_BaseTreeSent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "parent-tree", req["base_tree"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sha": "tree-sha-2"})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateTree(context.Background(), "octocat", "demo", "parent-tree", []domain.TreeEntry{
		{Path: "CONTRIBUTING.md", SHA: "blob-sha"},
	})
	require.NoError(t, err)
}

func TestCreateTree_DuplicatePath(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateTree(context.Background(), "octocat", "demo", "", []domain.TreeEntry{
		{Path: "README.md", SHA: "a"},
		{Path: "README.md", SHA: "b"},
	})
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	assert.Contains(t, err.Error(), "README.md")
	assert.Equal(t, 0, requests)
}

func TestCreateTree_EmptyEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateTree(context.Background(), "octocat", "demo", "", nil)
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
}

func TestCreateCommit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/demo/git/commits", r.URL.Path)

		var req struct {
			Message string   `json:"message"`
			Tree    string   `json:"tree"`
			Parents []string `json:"parents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "A master commit message", req.Message)
		assert.Equal(t, "tree-sha-1", req.Tree)
		require.NotNil(t, req.Parents, "parents must be present even when empty")
		assert.Empty(t, req.Parents)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sha":     "commit-sha-1",
			"message": "A master commit message",
			"tree":    map[string]string{"sha": "tree-sha-1"},
			"parents": []interface{}{},
			"author": map[string]string{
				"name": "octocat", "email": "octo@example.com", "date": "2024-03-01T12:00:00Z",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	commit, err := client.CreateCommit(context.Background(), "octocat", "demo",
		"A master commit message", "tree-sha-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "commit-sha-1", commit.SHA)
	assert.Equal(t, "A master commit message", commit.Message)
	assert.Equal(t, "tree-sha-1", commit.TreeSHA)
	assert.Empty(t, commit.ParentSHAs)
}

func TestCreateCommit_WithParent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Parents []string `json:"parents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"commit-sha-1"}, req.Parents)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"sha":     "commit-sha-2",
			"tree":    map[string]string{"sha": "tree-sha-2"},
			"parents": []interface{}{map[string]string{"sha": "commit-sha-1"}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	commit, err := client.CreateCommit(context.Background(), "octocat", "demo",
		"Add contributing guidelines", "tree-sha-2", []string{"commit-sha-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"commit-sha-1"}, commit.ParentSHAs)
}

func TestGetCommit_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetCommit(context.Background(), "octocat", "demo", "deadbeef")
	require.Error(t, err)
	assert.True(t, httpx.IsNotFound(err))
}

func TestGetReference(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/repos/octocat/demo/git/ref/heads/master", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ref":    "refs/heads/master",
			"object": map[string]string{"type": "commit", "sha": "commit-sha-1"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	ref, err := client.GetReference(context.Background(), "octocat", "demo", "heads/master")
	require.NoError(t, err)
	assert.Equal(t, "heads/master", ref.Ref)
	assert.Equal(t, "commit-sha-1", ref.SHA)
}

func TestCreateReference_PrependsRefsPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/octocat/demo/git/refs", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refs/heads/master", req["ref"])
		assert.Equal(t, "commit-sha-1", req["sha"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ref":    "refs/heads/master",
			"object": map[string]string{"type": "commit", "sha": "commit-sha-1"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	ref, err := client.CreateReference(context.Background(), "octocat", "demo", "heads/master", "commit-sha-1")
	require.NoError(t, err)
	assert.Equal(t, "heads/master", ref.Ref)
}

func TestCreateReference_RejectsLongForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreateReference(context.Background(), "octocat", "demo", "refs/heads/master", "sha")
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
}

func TestUpdateReference_Force(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "/repos/octocat/demo/git/refs/heads/master", r.URL.Path)

		var req struct {
			SHA   string `json:"sha"`
			Force bool   `json:"force"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Force)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ref":    "refs/heads/master",
			"object": map[string]string{"type": "commit", "sha": req.SHA},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	ref, err := client.UpdateReference(context.Background(), "octocat", "demo", "heads/master", "commit-sha-2", true)
	require.NoError(t, err)
	assert.Equal(t, "commit-sha-2", ref.SHA)
}

func TestUpdateReference_NonFastForwardIsConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Update is not a fast forward",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.UpdateReference(context.Background(), "octocat", "demo", "heads/master", "unrelated-sha", false)
	require.Error(t, err)
	assert.True(t, httpx.IsConflict(err), "non-fast-forward rejection must surface as a conflict")
	assert.False(t, httpx.IsValidation(err))
}

func TestValidatePathSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)

	tests := []struct {
		name  string
		owner string
		repo  string
	}{
		{"empty owner", "", "repo"},
		{"traversal owner", "..", "repo"},
		{"slash in repo", "owner", "re/po"},
		{"leading dot repo", "owner", ".hidden"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.CreateBlob(context.Background(), tc.owner, tc.repo, "x", domain.EncodingUTF8)
			require.Error(t, err)
			assert.True(t, httpx.IsValidation(err))
		})
	}
}
