// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

import "github.com/hashicorp/terraform-aws-account-config-lambda/structs"

// Location identifies where an account is configured.
type Location struct {
	Category structs.Category
	Key      string
	Entry    Entry
}

// SourceFile returns the file that owns the located entry.
// An entry without src-filename is owned by rootPath.
func (l Location) SourceFile(rootPath string) string {
	if f := l.Entry.SourceFile(); f != "" {
		return f
	}
	return rootPath
}

// Locate searches the mandatory partition and then the workload partition of a root
// document for the account with the given email. The first match wins.
// The boolean is false when neither partition holds the account.
func Locate(doc *Document, email string) (Location, bool, error) {
	for _, c := range structs.Categories {
		accounts, err := doc.Partition(c)
		if err != nil {
			return Location{}, false, err
		}
		if e, ok := accounts.Find(email); ok {
			return Location{Category: c, Key: e.Key, Entry: e}, true, nil
		}
	}
	return Location{}, false, nil
}
