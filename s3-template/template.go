// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// Properties are the custom resource properties of an S3 template.
type Properties struct {
	TemplateBucketName string            `mapstructure:"templateBucketName"`
	TemplatePath       string            `mapstructure:"templatePath"`
	OutputBucketName   string            `mapstructure:"outputBucketName"`
	OutputPath         string            `mapstructure:"outputPath"`
	Parameters         map[string]string `mapstructure:"parameters"`
}

func (p Properties) validate() error {
	var resultErr error
	required := []struct{ name, value string }{
		{"templateBucketName", p.TemplateBucketName},
		{"templatePath", p.TemplatePath},
		{"outputBucketName", p.OutputBucketName},
		{"outputPath", p.OutputPath},
	}
	for _, r := range required {
		if r.value == "" {
			resultErr = multierror.Append(resultErr, fmt.Errorf("%s is required", r.name))
		}
	}
	return resultErr
}

// OutputURI is the physical resource id of the rendered object.
func (p Properties) OutputURI() string {
	return fmt.Sprintf("s3://%s/%s", p.OutputBucketName, p.OutputPath)
}

func decodeProperties(raw map[string]interface{}) (Properties, error) {
	var p Properties
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &p,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("error decoding resource properties: %w", err)
	}
	return p, p.validate()
}

// Render replaces every occurrence of each parameter key in body with its value.
// Keys are applied in sorted order so the output does not depend on map iteration.
func Render(body string, parameters map[string]string) string {
	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		body = strings.ReplaceAll(body, k, parameters[k])
	}
	return body
}

// HandleEvent implements cfn.CustomResourceFunction.
func (env Environment) HandleEvent(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	env.Logger.Info("Received custom resource event", "request-type", event.RequestType, "logical-id", event.LogicalResourceID)

	switch event.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
		p, err := decodeProperties(event.ResourceProperties)
		if err != nil {
			return event.PhysicalResourceID, nil, err
		}
		if err := env.render(ctx, p); err != nil {
			return event.PhysicalResourceID, nil, err
		}
		return p.OutputURI(), nil, nil
	case cfn.RequestDelete:
		env.Logger.Info("Nothing to do for delete")
		return event.PhysicalResourceID, nil, nil
	}
	return event.PhysicalResourceID, nil, errors.New("unsupported request type " + string(event.RequestType))
}

func (env Environment) render(ctx context.Context, p Properties) error {
	env.Logger.Debug("Loading template", "bucket", p.TemplateBucketName, "key", p.TemplatePath)
	body, err := env.Objects.Get(ctx, p.TemplateBucketName, p.TemplatePath)
	if err != nil {
		return err
	}

	out := Render(string(body), p.Parameters)

	env.Logger.Debug("Saving output", "bucket", p.OutputBucketName, "key", p.OutputPath)
	return env.Objects.Put(ctx, p.OutputBucketName, p.OutputPath, []byte(out))
}
