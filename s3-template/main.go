// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	lambda.Start(cfn.LambdaWrap(HandleRequest))
}

func HandleRequest(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	env, err := SetupEnvironment(ctx)
	if err != nil {
		// We can't use the logger because of the error.
		fmt.Println("Error setting up the environment:", err)
		return event.PhysicalResourceID, nil, fmt.Errorf("setting up environment: %w", err)
	}
	return env.HandleEvent(ctx, event)
}
