// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
	"github.com/hashicorp/terraform-aws-account-config-lambda/trace"
)

// Settings locates the configuration in the repository.
type Settings struct {
	Repository string
	Branch     string
	// RootFilePath is the root configuration file. Its extension selects the format of
	// the root file and of every delegated file.
	RootFilePath string
	// IndexFilePath is the document searched for the account. Defaults to RootFilePath.
	IndexFilePath string

	AuthorName  string
	AuthorEmail string
}

func (s Settings) indexPath() string {
	if s.IndexFilePath == "" {
		return s.RootFilePath
	}
	return s.IndexFilePath
}

// Result describes what Remove did.
type Result struct {
	Status   structs.Status
	Category structs.Category
	Key      string
	// Path is the file the mutation was committed to.
	Path    string
	Outcome CommitOutcome
}

// Remover marks accounts as deleted in the repository configuration.
type Remover struct {
	Settings
	Store  Store
	Logger hclog.Logger
}

// Remove finds the configuration entry of the account, marks it deleted in the file that
// owns it and commits that file.
// An account missing from the configuration is reported as StatusNoAccountFound.
func (r Remover) Remove(ctx context.Context, account structs.Account) (Result, error) {
	log := r.logger().With("email", account.Email)
	log.Info("Removing account from configuration", "name", account.Name)

	index := r.indexPath()
	indexFile, indexDoc, err := r.read(ctx, index, CodecFor(index))
	if err != nil {
		return Result{}, err
	}

	loc, ok, err := Locate(indexDoc, account.Email)
	if err != nil {
		return Result{}, fmt.Errorf("searching %s: %w", index, err)
	}
	if !ok {
		log.Warn("Account is not present in the configuration", "path", index)
		return Result{Status: structs.StatusNoAccountFound}, nil
	}

	owner := loc.SourceFile(r.RootFilePath)
	log.Debug("Located account", "category", loc.Category, "key", loc.Key, "path", owner)

	codec := CodecFor(r.RootFilePath)
	var (
		file     File
		doc      *Document
		accounts Accounts
	)
	if owner == r.RootFilePath && index == r.RootFilePath {
		file, doc = indexFile, indexDoc
	} else if file, doc, err = r.read(ctx, owner, codec); err != nil {
		return Result{}, err
	}

	if owner == r.RootFilePath {
		accounts, err = doc.Partition(loc.Category)
		if err != nil {
			return Result{}, fmt.Errorf("reading %s: %w", owner, err)
		}
	} else {
		accounts = doc.Accounts()
	}

	key, ok := MarkDeleted(accounts, account.Email)
	if !ok {
		log.Warn("Account is not present in the file that owns it", "path", owner)
		return Result{Status: structs.StatusNoAccountFound, Category: loc.Category}, nil
	}

	committer := Committer{
		Store:       r.Store,
		Repository:  r.Repository,
		Branch:      r.Branch,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
		Logger:      log,
	}
	message := fmt.Sprintf("Remove account %s from configuration", account.Email)
	outcome, err := committer.Commit(ctx, owner, doc, codec, file.RevisionID, message)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Status:   structs.StatusSuccess,
		Category: loc.Category,
		Key:      key,
		Path:     owner,
		Outcome:  outcome,
	}, nil
}

func (r Remover) read(ctx context.Context, path string, codec Codec) (File, *Document, error) {
	timer := trace.Start("read")
	f, err := r.Store.GetFile(ctx, r.Repository, path, r.Branch)
	timer.Since(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := codec.Decode(f.Content)
	if err != nil {
		return File{}, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return f, doc, nil
}

func (r Remover) logger() hclog.Logger {
	if r.Logger == nil {
		return hclog.NewNullLogger()
	}
	return r.Logger
}
