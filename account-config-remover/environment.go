// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
	"github.com/hashicorp/terraform-aws-account-config-lambda/client"
	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
	"github.com/hashicorp/terraform-aws-account-config-lambda/trace"
)

const (
	backendCodeCommit = "codecommit"
	backendGitHub     = "github"

	secretStoreSecretsManager = "secretsmanager"
	secretStoreSSM            = "ssm"
)

// Config holds the configuration from the environment.
type Config struct {
	// Region is the AWS region of the repository and the accounts secret.
	Region string `envconfig:"ACCELERATOR_DEFAULT_REGION" required:"true"`

	// RepositoryName is the repository holding the configuration.
	// The GitHub backend expects owner/name.
	RepositoryName string `envconfig:"CONFIG_REPOSITORY_NAME" required:"true"`

	// RootFilePath is the root configuration file. Its extension selects JSON or YAML.
	RootFilePath string `envconfig:"CONFIG_ROOT_FILE_PATH" required:"true"`

	// ConfigFilePath is the document searched for the account. Defaults to RootFilePath.
	ConfigFilePath string `envconfig:"CONFIG_FILE_PATH"`

	// BranchName is the branch that is read and committed to.
	BranchName string `envconfig:"CONFIG_BRANCH_NAME" required:"true"`

	// AutomationRoleName is the role the accelerator state machine runs as. Events issued
	// by this role were caused by the automation itself and are ignored.
	AutomationRoleName string `envconfig:"ACCELERATOR_STATEMACHINE_ROLENAME" required:"true"`

	// AccountsSecretID identifies the secret holding the JSON list of managed accounts.
	AccountsSecretID string `envconfig:"ACCOUNTS_SECRET_ID" required:"true"`

	// AccountsSecretStore is where AccountsSecretID lives: secretsmanager or ssm.
	AccountsSecretStore string `envconfig:"ACCOUNTS_SECRET_STORE" default:"secretsmanager"`

	// RepositoryBackend is the repository service: codecommit or github.
	RepositoryBackend string `envconfig:"CONFIG_REPOSITORY_BACKEND" default:"codecommit"`

	// GitHubTokenPath is the path to the GitHub token in Parameter Store.
	GitHubTokenPath string `envconfig:"GITHUB_TOKEN_PATH"`

	CommitAuthorName  string `envconfig:"COMMIT_AUTHOR_NAME"`
	CommitAuthorEmail string `envconfig:"COMMIT_AUTHOR_EMAIL"`

	// LogLevel is the configured logging level.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Trace enables timing of repository calls.
	Trace bool `envconfig:"TRACE" default:"false"`
}

func (c Config) validate() error {
	var resultErr error
	switch c.RepositoryBackend {
	case backendCodeCommit:
	case backendGitHub:
		if c.GitHubTokenPath == "" {
			resultErr = multierror.Append(resultErr, fmt.Errorf("GITHUB_TOKEN_PATH is required for the %s backend", backendGitHub))
		}
	default:
		resultErr = multierror.Append(resultErr, fmt.Errorf("unsupported repository backend %q", c.RepositoryBackend))
	}

	switch c.AccountsSecretStore {
	case secretStoreSecretsManager, secretStoreSSM:
	default:
		resultErr = multierror.Append(resultErr, fmt.Errorf("unsupported accounts secret store %q", c.AccountsSecretStore))
	}
	return resultErr
}

// settings returns the repository layout passed to the remover.
func (c Config) settings() accountconfig.Settings {
	return accountconfig.Settings{
		Repository:    c.RepositoryName,
		Branch:        c.BranchName,
		RootFilePath:  c.RootFilePath,
		IndexFilePath: c.ConfigFilePath,
		AuthorName:    c.CommitAuthorName,
		AuthorEmail:   c.CommitAuthorEmail,
	}
}

// AccountRegistry resolves account ids to managed accounts.
type AccountRegistry interface {
	Lookup(ctx context.Context, id string) (structs.Account, bool, error)
}

// Environment contains all of the handler's dependencies.
type Environment struct {
	Config

	// Store is the repository holding the configuration files.
	Store accountconfig.Store

	// Registry is the list of managed accounts.
	Registry AccountRegistry

	// Logger is used to log messages.
	Logger hclog.Logger
}

// LoadConfig reads the Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

// SetupEnvironment constructs the processing Environment based on environment variables.
func SetupEnvironment(ctx context.Context) (Environment, error) {
	var env Environment

	cfg, err := LoadConfig()
	if err != nil {
		return env, err
	}
	env.Config = cfg

	env.Logger = hclog.New(
		&hclog.LoggerOptions{
			Name:  "account-config-remover",
			Level: hclog.LevelFromString(env.LogLevel),
		},
	)
	trace.Enabled(env.Trace)
	trace.SetLogger(trace.NewHCLog(env.Logger, hclog.Debug))

	sdkConfig, err := config.LoadDefaultConfig(ctx, config.WithRegion(env.Region), config.WithRetryer(func() aws.Retryer {
		// Adaptive mode should retry on hitting rate limits.
		return retry.AddWithMaxBackoffDelay(retry.NewAdaptiveMode(), 3*time.Second)
	}))
	if err != nil {
		return env, err
	}

	ssm := client.NewSSM(&sdkConfig)

	var secrets client.SecretReader = client.NewSecretsManager(&sdkConfig)
	if env.AccountsSecretStore == secretStoreSSM {
		secrets = ssm
	}
	env.Registry = client.Registry{Secrets: secrets, SecretID: env.AccountsSecretID}

	env.Store, err = newStore(ctx, env.Config, &sdkConfig, ssm)
	if err != nil {
		return env, err
	}

	return env, nil
}

func newStore(ctx context.Context, cfg Config, sdkConfig *aws.Config, params client.SecretReader) (accountconfig.Store, error) {
	if cfg.RepositoryBackend != backendGitHub {
		return client.NewCodeCommit(sdkConfig), nil
	}

	token, err := params.Get(ctx, cfg.GitHubTokenPath)
	if err != nil {
		return nil, fmt.Errorf("reading github token: %w", err)
	}
	return client.NewGitHub(ctx, token), nil
}
