// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig/storetest"
	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
)

func TestCommitter(t *testing.T) {
	ctx := context.Background()
	codec := accountconfig.YAMLCodec{}

	setup := func(t *testing.T) (*storetest.MemStore, accountconfig.Committer, *accountconfig.Document, accountconfig.File) {
		store := storetest.New(map[string]string{"config.yaml": rootYAML})
		f, err := store.GetFile(ctx, "repo", "config.yaml", "main")
		require.NoError(t, err)
		doc := decode(t, codec, string(f.Content))
		c := accountconfig.Committer{Store: store, Repository: "repo", Branch: "main", AuthorName: "automation", AuthorEmail: "automation@example.com"}
		return store, c, doc, f
	}

	t.Run("applied", func(t *testing.T) {
		store, c, doc, f := setup(t)
		mandatory, err := doc.Partition(structs.Mandatory)
		require.NoError(t, err)
		_, ok := accountconfig.MarkDeleted(mandatory, "mgmt@example.com")
		require.True(t, ok)

		outcome, err := c.Commit(ctx, "config.yaml", doc, codec, f.RevisionID, "remove mgmt")
		require.NoError(t, err)
		require.Equal(t, accountconfig.Applied, outcome)

		require.Len(t, store.Commits, 1)
		req := store.Commits[0]
		require.Equal(t, "repo", req.Repository)
		require.Equal(t, "main", req.Branch)
		require.Equal(t, "config.yaml", req.FilePath)
		require.Equal(t, f.RevisionID, req.ParentRevisionID)
		require.Equal(t, "remove mgmt", req.Message)
		require.Equal(t, "automation", req.AuthorName)
		require.Equal(t, "automation@example.com", req.AuthorEmail)
		require.Equal(t, string(req.FileContent), store.File("config.yaml"))
	})

	t.Run("second application is already up to date", func(t *testing.T) {
		store, c, doc, f := setup(t)
		mandatory, err := doc.Partition(structs.Mandatory)
		require.NoError(t, err)
		accountconfig.MarkDeleted(mandatory, "mgmt@example.com")
		_, err = c.Commit(ctx, "config.yaml", doc, codec, f.RevisionID, "first")
		require.NoError(t, err)

		f, err = store.GetFile(ctx, "repo", "config.yaml", "main")
		require.NoError(t, err)
		doc = decode(t, codec, string(f.Content))
		mandatory, err = doc.Partition(structs.Mandatory)
		require.NoError(t, err)
		accountconfig.MarkDeleted(mandatory, "mgmt@example.com")

		outcome, err := c.Commit(ctx, "config.yaml", doc, codec, f.RevisionID, "second")
		require.NoError(t, err)
		require.Equal(t, accountconfig.AlreadyUpToDate, outcome)
		require.Len(t, store.Commits, 1)
	})

	t.Run("stale parent is a failure", func(t *testing.T) {
		store, c, doc, f := setup(t)
		store.Put("config.yaml", rootYAML+"# concurrent edit\n")

		mandatory, err := doc.Partition(structs.Mandatory)
		require.NoError(t, err)
		accountconfig.MarkDeleted(mandatory, "mgmt@example.com")

		_, err = c.Commit(ctx, "config.yaml", doc, codec, f.RevisionID, "remove mgmt")
		require.ErrorIs(t, err, accountconfig.ErrConflict)
		require.Empty(t, store.Commits)
	})

	t.Run("store failure is propagated", func(t *testing.T) {
		store, c, doc, f := setup(t)
		boom := errors.New("AccessDeniedException")
		store.Err = boom

		_, err := c.Commit(ctx, "config.yaml", doc, codec, f.RevisionID, "remove mgmt")
		require.ErrorIs(t, err, boom)
	})
}

func TestCommitOutcomeString(t *testing.T) {
	require.Equal(t, "applied", accountconfig.Applied.String())
	require.Equal(t, "already-up-to-date", accountconfig.AlreadyUpToDate.String())
	require.Equal(t, "CommitOutcome(0)", accountconfig.CommitOutcome(0).String())
}
