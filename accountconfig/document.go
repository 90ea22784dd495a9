// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
)

const (
	emailField       = "email"
	srcFilenameField = "src-filename"
	deletedField     = "deleted"
)

// ErrMalformedDocument is returned when a configuration file does not have the expected shape.
var ErrMalformedDocument = errors.New("malformed configuration document")

// Document is a parsed configuration file.
// It keeps the yaml.Node tree so that key order and unknown fields survive a round trip.
type Document struct {
	root *yaml.Node
}

func newDocument(n *yaml.Node) (*Document, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}
	if n.Kind != yaml.DocumentNode {
		n = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{n}}
	}
	if len(n.Content) != 1 || resolve(n.Content[0]).Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformedDocument)
	}
	return &Document{root: n}, nil
}

func (d *Document) body() *yaml.Node {
	return resolve(d.root.Content[0])
}

// Accounts returns the top-level mapping of the document. Delegated files are a flat
// mapping from account key to account entry.
func (d *Document) Accounts() Accounts {
	return Accounts{node: d.body()}
}

// Partition returns the account mapping stored under the category key of a root document.
// A missing or empty partition yields an empty mapping.
func (d *Document) Partition(c structs.Category) (Accounts, error) {
	v := lookup(d.body(), c.Key())
	if v == nil || v.ShortTag() == "!!null" {
		return Accounts{}, nil
	}
	if v.Kind != yaml.MappingNode {
		return Accounts{}, fmt.Errorf("%w: %s is not a mapping", ErrMalformedDocument, c.Key())
	}
	return Accounts{node: v}, nil
}

// Accounts is an ordered mapping from account key to account entry.
type Accounts struct {
	node *yaml.Node
}

// Len returns the number of entries in the mapping.
func (a Accounts) Len() int {
	if a.node == nil {
		return 0
	}
	return len(a.node.Content) / 2
}

// Entries returns the entries in document order.
func (a Accounts) Entries() []Entry {
	if a.node == nil {
		return nil
	}
	entries := make([]Entry, 0, a.Len())
	for i := 0; i+1 < len(a.node.Content); i += 2 {
		entries = append(entries, Entry{Key: a.node.Content[i].Value, node: resolve(a.node.Content[i+1])})
	}
	return entries
}

// Find returns the first entry whose email equals the given address.
func (a Accounts) Find(email string) (Entry, bool) {
	if email == "" {
		return Entry{}, false
	}
	for _, e := range a.Entries() {
		if e.Email() == email {
			return e, true
		}
	}
	return Entry{}, false
}

// Entry is the configuration of a single account.
type Entry struct {
	Key  string
	node *yaml.Node
}

func (e Entry) field(name string) string {
	if e.node == nil || e.node.Kind != yaml.MappingNode {
		return ""
	}
	v := lookup(e.node, name)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

// Email returns the email of the account, or an empty string when unset.
func (e Entry) Email() string {
	return e.field(emailField)
}

// SourceFile returns the path of the file that owns this entry.
func (e Entry) SourceFile() string {
	return e.field(srcFilenameField)
}

// Deleted reports whether the entry carries deleted: true.
func (e Entry) Deleted() bool {
	if e.node == nil || e.node.Kind != yaml.MappingNode {
		return false
	}
	v := lookup(e.node, deletedField)
	return v != nil && v.ShortTag() == "!!bool" && parseBool(v.Value)
}

// markDeleted sets deleted: true on the entry, appending the field when it is absent.
func (e Entry) markDeleted() {
	for i := 0; i+1 < len(e.node.Content); i += 2 {
		if e.node.Content[i].Value == deletedField {
			e.node.Content[i+1] = boolNode(true)
			return
		}
	}
	e.node.Content = append(e.node.Content, stringNode(deletedField), boolNode(true))
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func stringNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolNode(v bool) *yaml.Node {
	s := "false"
	if v {
		s = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
}

func parseBool(s string) bool {
	switch s {
	case "true", "True", "TRUE":
		return true
	}
	return false
}
