// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/hashicorp/go-hclog"
	"github.com/kelseyhightower/envconfig"

	"github.com/hashicorp/terraform-aws-account-config-lambda/client"
)

// Config holds the configuration from the environment.
type Config struct {
	// LogLevel is the configured logging level.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ObjectStore reads and writes whole objects.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte) error
}

// Environment contains all of the handler's dependencies.
type Environment struct {
	Config

	// Objects is the store templates are read from and rendered output is written to.
	Objects ObjectStore

	// Logger is used to log messages.
	Logger hclog.Logger
}

// SetupEnvironment constructs the Environment from environment variables and the default AWS configuration.
func SetupEnvironment(ctx context.Context) (Environment, error) {
	var env Environment

	if err := envconfig.Process("", &env.Config); err != nil {
		return env, err
	}

	env.Logger = hclog.New(
		&hclog.LoggerOptions{
			Name:  "s3-template",
			Level: hclog.LevelFromString(env.LogLevel),
		},
	)

	sdkConfig, err := config.LoadDefaultConfig(ctx, config.WithRetryer(func() aws.Retryer {
		return retry.AddWithMaxBackoffDelay(retry.NewAdaptiveMode(), 3*time.Second)
	}))
	if err != nil {
		return env, err
	}

	env.Objects = client.NewS3(&sdkConfig)
	return env, nil
}
