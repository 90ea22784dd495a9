// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the subset of the Secrets Manager API used to read secrets.
type SecretsManagerAPI interface {
	GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager reads string secrets from AWS Secrets Manager.
type SecretsManager struct {
	client SecretsManagerAPI
}

// NewSecretsManager creates a SecretsManager client from the given AWS SDK config.
func NewSecretsManager(cfg *aws.Config) *SecretsManager {
	return &SecretsManager{client: secretsmanager.NewFromConfig(*cfg)}
}

// Get returns the current string value of the secret.
func (c *SecretsManager) Get(ctx context.Context, id string) (string, error) {
	out, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: &id})
	if err != nil {
		return "", err
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", id)
	}
	return *out.SecretString, nil
}
