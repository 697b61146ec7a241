package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/httpx"
)

func TestCreatePullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/repos/octocat/demo/pulls", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Add contributing guidelines", req["title"])
		assert.Equal(t, "feature/contributing", req["head"])
		assert.Equal(t, "master", req["base"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"number": 1,
			"title":  req["title"],
			"body":   req["body"],
			"state":  "open",
			"head":   map[string]string{"ref": "feature/contributing", "sha": "commit-sha-2"},
			"base":   map[string]string{"ref": "master"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	pr, err := client.CreatePullRequest(context.Background(), "octocat", "demo",
		"Add contributing guidelines", "Adds a CONTRIBUTING.md", "feature/contributing", "master")
	require.NoError(t, err)
	assert.Equal(t, 1, pr.Number)
	assert.Equal(t, "open", pr.State)
	assert.Equal(t, "feature/contributing", pr.Head)
	assert.Equal(t, "master", pr.Base)
	assert.Equal(t, "commit-sha-2", pr.HeadSHA)
}

func TestCreatePullRequest_SameHeadAndBase(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreatePullRequest(context.Background(), "octocat", "demo",
		"Title", "", "master", "master")
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	assert.Equal(t, 0, requests, "identical head and base must be rejected before any request")
}

func TestCreatePullRequest_DuplicateIsValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Validation Failed",
			"errors": []map[string]string{
				{"message": "A pull request already exists for octocat:feature/contributing."},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreatePullRequest(context.Background(), "octocat", "demo",
		"Title", "", "feature/contributing", "master")
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	assert.Contains(t, err.Error(), "pull request already exists")
}

func TestCreatePullRequest_MissingTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.CreatePullRequest(context.Background(), "octocat", "demo",
		"", "", "feature/contributing", "master")
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
}

func TestGetPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/repos/octocat/demo/pulls/7", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"number": 7,
			"title":  "Add contributing guidelines",
			"state":  "open",
			"head":   map[string]string{"ref": "feature/contributing", "sha": "commit-sha-2"},
			"base":   map[string]string{"ref": "master"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	pr, err := client.GetPullRequest(context.Background(), "octocat", "demo", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, pr.Number)
}

func TestGetPullRequest_InvalidNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.GetPullRequest(context.Background(), "octocat", "demo", 0)
	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
}
