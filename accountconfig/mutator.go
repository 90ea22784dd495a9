// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package accountconfig

// MarkDeleted finds the entry with the given email and sets deleted: true on it, in place.
// Every other field and entry is left untouched and the entry keeps its key and position.
// Marking an entry that is already deleted leaves the mapping unchanged.
// It returns the key of the entry, or false when no entry has that email.
func MarkDeleted(accounts Accounts, email string) (string, bool) {
	e, ok := accounts.Find(email)
	if !ok {
		return "", false
	}
	e.markDeleted()
	return e.Key, true
}
