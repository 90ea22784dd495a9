// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package structs

import "fmt"

// Account is a managed account as recorded in the accounts registry secret.
// Configuration entries are matched on Email, not ID.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a Account) String() string {
	return fmt.Sprintf("%s (%s, %s)", a.Name, a.ID, a.Email)
}

// Category is one of the two top-level account partitions of the root configuration.
type Category int

const (
	Mandatory Category = iota + 1
	Workload
)

// Key returns the name of the partition in the root configuration document.
func (c Category) Key() string {
	switch c {
	case Mandatory:
		return "mandatory-account-configs"
	case Workload:
		return "workload-account-configs"
	}
	return ""
}

func (c Category) String() string {
	switch c {
	case Mandatory:
		return "mandatory"
	case Workload:
		return "workload"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Categories lists the partitions in the order they are searched.
var Categories = []Category{Mandatory, Workload}

// Status is the result reported back to the invoking platform.
type Status string

const (
	StatusNoOperationRequired Status = "NO_OPERATION_REQUIRED"
	StatusNoAccountFound      Status = "NO_ACCOUNT_FOUND"
	StatusSuccess             Status = "SUCCESS"
)
