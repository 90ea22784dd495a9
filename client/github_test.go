// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
)

type mockContents struct {
	files   map[string]string
	sha     int
	updates []*gh.RepositoryContentFileOptions
	err     error
}

var _ GitHubContentsAPI = (*mockContents)(nil)

func (m *mockContents) GetContents(_ context.Context, owner, repo, path string, opts *gh.RepositoryContentGetOptions) (*gh.RepositoryContent, []*gh.RepositoryContent, *gh.Response, error) {
	if owner != "org" || repo != "config" || opts.Ref != "main" {
		return nil, nil, nil, fmt.Errorf("unexpected %s/%s@%s", owner, repo, opts.Ref)
	}
	c, ok := m.files[path]
	if !ok {
		return nil, nil, nil, &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusNotFound}, Message: "Not Found"}
	}
	return &gh.RepositoryContent{
		Encoding: gh.Ptr("base64"),
		Content:  gh.Ptr(base64.StdEncoding.EncodeToString([]byte(c))),
		SHA:      gh.Ptr(m.revision()),
	}, nil, nil, nil
}

func (m *mockContents) UpdateFile(_ context.Context, _, _, path string, opts *gh.RepositoryContentFileOptions) (*gh.RepositoryContentResponse, *gh.Response, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	m.updates = append(m.updates, opts)
	m.files[path] = string(opts.Content)
	m.sha++
	resp := &gh.RepositoryContentResponse{}
	resp.Commit.SHA = gh.Ptr("commit-" + m.revision())
	return resp, nil, nil
}

func (m *mockContents) revision() string {
	return fmt.Sprintf("sha%d", m.sha)
}

func TestGitHubStore(t *testing.T) {
	ctx := context.Background()

	newStore := func() (*GitHub, *mockContents) {
		m := &mockContents{files: map[string]string{"config.yaml": "a: b\n"}}
		return &GitHub{contents: m}, m
	}

	t.Run("read and commit", func(t *testing.T) {
		store, m := newStore()
		f, err := store.GetFile(ctx, "org/config", "config.yaml", "main")
		require.NoError(t, err)
		require.Equal(t, accountconfig.File{Path: "config.yaml", Content: []byte("a: b\n"), RevisionID: "sha0"}, f)

		rev, err := store.Commit(ctx, accountconfig.CommitRequest{
			Repository:       "org/config",
			Branch:           "main",
			FilePath:         "config.yaml",
			FileContent:      []byte("a: c\n"),
			ParentRevisionID: f.RevisionID,
			Message:          "Remove account",
			AuthorName:       "automation",
			AuthorEmail:      "automation@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "commit-sha1", rev)
		require.Len(t, m.updates, 1)
		require.Equal(t, "sha0", m.updates[0].GetSHA())
		require.Equal(t, "main", m.updates[0].GetBranch())
		require.Equal(t, "automation", m.updates[0].Author.GetName())
		require.Equal(t, "a: c\n", m.files["config.yaml"])
	})

	t.Run("identical content", func(t *testing.T) {
		store, m := newStore()
		_, err := store.Commit(ctx, accountconfig.CommitRequest{
			Repository: "org/config", Branch: "main", FilePath: "config.yaml",
			FileContent: []byte("a: b\n"), ParentRevisionID: "sha0",
		})
		require.ErrorIs(t, err, accountconfig.ErrNoChange)
		require.Empty(t, m.updates)
	})

	t.Run("stale parent", func(t *testing.T) {
		store, m := newStore()
		m.sha = 3
		_, err := store.Commit(ctx, accountconfig.CommitRequest{
			Repository: "org/config", Branch: "main", FilePath: "config.yaml",
			FileContent: []byte("a: c\n"), ParentRevisionID: "sha0",
		})
		require.ErrorIs(t, err, accountconfig.ErrConflict)
	})

	t.Run("conflict from the API", func(t *testing.T) {
		store, m := newStore()
		m.err = &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusConflict}, Message: "sha mismatch"}
		_, err := store.Commit(ctx, accountconfig.CommitRequest{
			Repository: "org/config", Branch: "main", FilePath: "config.yaml",
			FileContent: []byte("a: c\n"), ParentRevisionID: "sha0",
		})
		require.ErrorIs(t, err, accountconfig.ErrConflict)
	})

	t.Run("repository name must include the owner", func(t *testing.T) {
		store, _ := newStore()
		for _, name := range []string{"config", "/config", "org/", "a/b/c"} {
			_, err := store.GetFile(ctx, name, "config.yaml", "main")
			require.Error(t, err, name)
		}
	})
}
