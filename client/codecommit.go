// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codecommit"
	"github.com/aws/aws-sdk-go-v2/service/codecommit/types"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
)

// CodeCommitAPI is the subset of the CodeCommit API used to read and commit configuration files.
type CodeCommitAPI interface {
	GetFile(context.Context, *codecommit.GetFileInput, ...func(*codecommit.Options)) (*codecommit.GetFileOutput, error)
	CreateCommit(context.Context, *codecommit.CreateCommitInput, ...func(*codecommit.Options)) (*codecommit.CreateCommitOutput, error)
}

// CodeCommit is an accountconfig.Store backed by an AWS CodeCommit repository.
type CodeCommit struct {
	client CodeCommitAPI
}

var _ accountconfig.Store = (*CodeCommit)(nil)

// NewCodeCommit creates a CodeCommit store from the given AWS SDK config.
func NewCodeCommit(cfg *aws.Config) *CodeCommit {
	return &CodeCommit{client: codecommit.NewFromConfig(*cfg)}
}

// GetFile reads the file at the head of the branch. The returned revision is the commit id.
func (c *CodeCommit) GetFile(ctx context.Context, repository, path, branch string) (accountconfig.File, error) {
	out, err := c.client.GetFile(ctx, &codecommit.GetFileInput{
		RepositoryName:  &repository,
		FilePath:        &path,
		CommitSpecifier: &branch,
	})
	if err != nil {
		return accountconfig.File{}, err
	}

	return accountconfig.File{
		Path:       path,
		Content:    out.FileContent,
		RevisionID: aws.ToString(out.CommitId),
	}, nil
}

// Commit creates a commit that puts a single file on the branch.
func (c *CodeCommit) Commit(ctx context.Context, req accountconfig.CommitRequest) (string, error) {
	input := &codecommit.CreateCommitInput{
		RepositoryName: &req.Repository,
		BranchName:     &req.Branch,
		ParentCommitId: &req.ParentRevisionID,
		PutFiles: []types.PutFileEntry{
			{
				FilePath:    &req.FilePath,
				FileContent: req.FileContent,
			},
		},
	}
	if req.Message != "" {
		input.CommitMessage = &req.Message
	}
	if req.AuthorName != "" {
		input.AuthorName = &req.AuthorName
	}
	if req.AuthorEmail != "" {
		input.Email = &req.AuthorEmail
	}

	out, err := c.client.CreateCommit(ctx, input)
	if err != nil {
		return "", commitError(err)
	}
	return aws.ToString(out.CommitId), nil
}

func commitError(err error) error {
	var noChange *types.NoChangeException
	if errors.As(err, &noChange) {
		return fmt.Errorf("%w: %s", accountconfig.ErrNoChange, noChange.ErrorMessage())
	}
	var outdated *types.ParentCommitIdOutdatedException
	if errors.As(err, &outdated) {
		return fmt.Errorf("%w: %s", accountconfig.ErrConflict, outdated.ErrorMessage())
	}
	return err
}
