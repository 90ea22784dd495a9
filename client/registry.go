// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
)

// SecretReader returns the string value stored under a key.
// Both SecretsManager and SSMClient implement it.
type SecretReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// Registry is the list of managed accounts, stored as a JSON array in a secret.
type Registry struct {
	Secrets  SecretReader
	SecretID string
}

// Accounts fetches and decodes the registry. Nothing is cached between calls.
func (r Registry) Accounts(ctx context.Context) ([]structs.Account, error) {
	raw, err := r.Secrets.Get(ctx, r.SecretID)
	if err != nil {
		return nil, fmt.Errorf("reading accounts secret %s: %w", r.SecretID, err)
	}

	var accounts []structs.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		return nil, fmt.Errorf("decoding accounts secret %s: %w", r.SecretID, err)
	}
	return accounts, nil
}

// Lookup returns the account with the given id. The boolean is false when the
// account is not in the registry.
func (r Registry) Lookup(ctx context.Context, id string) (structs.Account, bool, error) {
	accounts, err := r.Accounts(ctx)
	if err != nil {
		return structs.Account{}, false, err
	}
	for _, a := range accounts {
		if a.ID == id {
			return a, true, nil
		}
	}
	return structs.Account{}, false, nil
}
