// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package storetest provides an in-memory accountconfig.Store for tests.
package storetest

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
)

// MemStore is a single-branch repository held in memory. Every file has its own revision
// counter, which is enough to exercise optimistic concurrency on a single file.
type MemStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	revisions map[string]int

	// Reads lists every path passed to GetFile, in order.
	Reads []string
	// Commits lists every accepted commit, in order.
	Commits []accountconfig.CommitRequest
	// Err, when set, is returned by Commit instead of writing.
	Err error
}

var _ accountconfig.Store = (*MemStore)(nil)

// New returns a store holding the given files at revision 1.
func New(files map[string]string) *MemStore {
	s := &MemStore{files: make(map[string][]byte), revisions: make(map[string]int)}
	for p, c := range files {
		s.files[p] = []byte(c)
		s.revisions[p] = 1
	}
	return s
}

func (s *MemStore) GetFile(_ context.Context, _, path, _ string) (accountconfig.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reads = append(s.Reads, path)
	c, ok := s.files[path]
	if !ok {
		return accountconfig.File{}, fmt.Errorf("file %s does not exist", path)
	}
	return accountconfig.File{Path: path, Content: append([]byte(nil), c...), RevisionID: s.revision(path)}, nil
}

func (s *MemStore) Commit(_ context.Context, req accountconfig.CommitRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if cur := s.revision(req.FilePath); req.ParentRevisionID != cur {
		return "", fmt.Errorf("%w: %s is at %s", accountconfig.ErrConflict, req.FilePath, cur)
	}
	if bytes.Equal(s.files[req.FilePath], req.FileContent) {
		return "", fmt.Errorf("%w: %s", accountconfig.ErrNoChange, req.FilePath)
	}

	s.files[req.FilePath] = append([]byte(nil), req.FileContent...)
	s.revisions[req.FilePath]++
	s.Commits = append(s.Commits, req)
	return s.revision(req.FilePath), nil
}

// File returns the current content of path.
func (s *MemStore) File(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.files[path])
}

// Put overwrites path, as a concurrent writer would.
func (s *MemStore) Put(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = []byte(content)
	s.revisions[path]++
}

func (s *MemStore) revision(path string) string {
	return fmt.Sprintf("rev-%d", s.revisions[path])
}
