// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	lambda.Start(HandleRequest)
}

func HandleRequest(ctx context.Context, rawEvent map[string]interface{}) (string, error) {
	env, err := SetupEnvironment(ctx)
	if err != nil {
		// We can't use the logger because of the error.
		fmt.Println("Error setting up the environment:", err)
		return "", fmt.Errorf("setting up environment: %w", err)
	}

	event, err := DecodeEvent(rawEvent)
	if err != nil {
		env.Logger.Warn("Error decoding event", "error", err)
		return "", err
	}

	env.Logger.Info("Received event", "source", event.Source, "detail-type", event.DetailType)
	status, err := env.Process(ctx, event)
	if err != nil {
		env.Logger.Error("Error processing event", "error", err)
		return "", err
	}

	return string(status), nil
}
