// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/terraform-aws-account-config-lambda/trace"
)

var (
	// ErrNoChange is returned by a Store when the committed content is identical to the current file.
	ErrNoChange = errors.New("no effective change")
	// ErrConflict is returned by a Store when the parent revision is no longer the head of the branch.
	ErrConflict = errors.New("parent revision is outdated")
)

// File is the content of a file at a revision.
type File struct {
	Path       string
	Content    []byte
	RevisionID string
}

// CommitRequest is a single file commit anchored at the revision the file was read from.
type CommitRequest struct {
	Repository       string
	Branch           string
	FilePath         string
	FileContent      []byte
	ParentRevisionID string
	Message          string
	AuthorName       string
	AuthorEmail      string
}

// Store is a version controlled repository.
type Store interface {
	// GetFile reads a file at the head of the branch.
	GetFile(ctx context.Context, repository, path, branch string) (File, error)
	// Commit writes a single file and returns the new revision.
	// It returns an error wrapping ErrNoChange when the content is unchanged.
	Commit(ctx context.Context, req CommitRequest) (string, error)
}

// CommitOutcome classifies a successful commit.
type CommitOutcome int

const (
	Applied CommitOutcome = iota + 1
	AlreadyUpToDate
)

func (o CommitOutcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AlreadyUpToDate:
		return "already-up-to-date"
	}
	return fmt.Sprintf("CommitOutcome(%d)", int(o))
}

// Committer serializes documents and commits them to a Store.
type Committer struct {
	Store      Store
	Repository string
	Branch     string

	AuthorName  string
	AuthorEmail string

	Logger hclog.Logger
}

// Commit writes doc to filePath using codec, anchored at parent.
// A store that reports no effective change yields AlreadyUpToDate. Any other failure is returned as is.
func (c Committer) Commit(ctx context.Context, filePath string, doc *Document, codec Codec, parent, message string) (CommitOutcome, error) {
	content, err := codec.Encode(doc)
	if err != nil {
		return 0, fmt.Errorf("encoding %s as %s: %w", filePath, codec.Format(), err)
	}

	timer := trace.Start("commit")
	revision, err := c.Store.Commit(ctx, CommitRequest{
		Repository:       c.Repository,
		Branch:           c.Branch,
		FilePath:         filePath,
		FileContent:      content,
		ParentRevisionID: parent,
		Message:          message,
		AuthorName:       c.AuthorName,
		AuthorEmail:      c.AuthorEmail,
	})
	timer.Since(filePath)

	switch {
	case errors.Is(err, ErrNoChange):
		c.logger().Info("Configuration is already up to date", "path", filePath)
		return AlreadyUpToDate, nil
	case err != nil:
		return 0, fmt.Errorf("committing %s: %w", filePath, err)
	}

	c.logger().Info("Committed configuration", "path", filePath, "commit", revision)
	return Applied, nil
}

func (c Committer) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}
