// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
)

const gitHubTimeout = 30 * time.Second

// GitHubContentsAPI is the subset of the GitHub repository contents API used to read and commit files.
type GitHubContentsAPI interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *gh.RepositoryContentGetOptions) (*gh.RepositoryContent, []*gh.RepositoryContent, *gh.Response, error)
	UpdateFile(ctx context.Context, owner, repo, path string, opts *gh.RepositoryContentFileOptions) (*gh.RepositoryContentResponse, *gh.Response, error)
}

// GitHub is an accountconfig.Store backed by a GitHub repository.
// Repositories are named owner/name and the revision of a file is its blob SHA.
type GitHub struct {
	contents GitHubContentsAPI
}

var _ accountconfig.Store = (*GitHub)(nil)

// NewGitHub creates a GitHub store that authenticates with the given token.
func NewGitHub(ctx context.Context, token string) *GitHub {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = gitHubTimeout
	return &GitHub{contents: gh.NewClient(tc).Repositories}
}

// GetFile reads the file at the head of the branch.
func (c *GitHub) GetFile(ctx context.Context, repository, path, branch string) (accountconfig.File, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return accountconfig.File{}, err
	}

	fc, _, _, err := c.contents.GetContents(ctx, owner, repo, path, &gh.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		return accountconfig.File{}, err
	}
	if fc == nil {
		return accountconfig.File{}, fmt.Errorf("%s is not a file", path)
	}

	content, err := fc.GetContent()
	if err != nil {
		return accountconfig.File{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return accountconfig.File{
		Path:       path,
		Content:    []byte(content),
		RevisionID: fc.GetSHA(),
	}, nil
}

// Commit updates a single file on the branch. The contents API always creates a commit,
// so the current file is compared first to report unchanged content and stale parents.
func (c *GitHub) Commit(ctx context.Context, req accountconfig.CommitRequest) (string, error) {
	owner, repo, err := splitRepository(req.Repository)
	if err != nil {
		return "", err
	}

	current, err := c.GetFile(ctx, req.Repository, req.FilePath, req.Branch)
	if err != nil {
		return "", err
	}
	if current.RevisionID != req.ParentRevisionID {
		return "", fmt.Errorf("%w: %s is at %s", accountconfig.ErrConflict, req.FilePath, current.RevisionID)
	}
	if bytes.Equal(current.Content, req.FileContent) {
		return "", fmt.Errorf("%w: %s", accountconfig.ErrNoChange, req.FilePath)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(req.Message),
		Content: req.FileContent,
		SHA:     gh.Ptr(req.ParentRevisionID),
		Branch:  gh.Ptr(req.Branch),
	}
	if req.AuthorName != "" && req.AuthorEmail != "" {
		opts.Author = &gh.CommitAuthor{Name: gh.Ptr(req.AuthorName), Email: gh.Ptr(req.AuthorEmail)}
	}

	resp, _, err := c.contents.UpdateFile(ctx, owner, repo, req.FilePath, opts)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusConflict {
			return "", fmt.Errorf("%w: %s", accountconfig.ErrConflict, ghErr.Message)
		}
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.Commit.GetSHA(), nil
}

func splitRepository(repository string) (string, string, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("github repository %q must be in owner/name form", repository)
	}
	return owner, repo, nil
}
