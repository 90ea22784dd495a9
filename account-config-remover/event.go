// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/hashicorp/terraform-aws-account-config-lambda/accountconfig"
	"github.com/hashicorp/terraform-aws-account-config-lambda/structs"
)

var errAccountIDUndefined = errors.New("accountId isn't populated")

// AWSEvent is the CloudTrail record of an Organizations API call, delivered by EventBridge.
type AWSEvent struct {
	Source     string `mapstructure:"source"`
	DetailType string `mapstructure:"detail-type"`
	Detail     Detail `mapstructure:"detail"`
}

type Detail struct {
	EventName         string            `mapstructure:"eventName"`
	UserIdentity      UserIdentity      `mapstructure:"userIdentity"`
	RequestParameters RequestParameters `mapstructure:"requestParameters"`
}

type UserIdentity struct {
	ARN            string         `mapstructure:"arn"`
	SessionContext SessionContext `mapstructure:"sessionContext"`
}

type SessionContext struct {
	SessionIssuer SessionIssuer `mapstructure:"sessionIssuer"`
}

type SessionIssuer struct {
	UserName string `mapstructure:"userName"`
}

type RequestParameters struct {
	AccountID           string `mapstructure:"accountId"`
	SourceParentID      string `mapstructure:"sourceParentId"`
	DestinationParentID string `mapstructure:"destinationParentId"`
}

// Actor returns the name of the role that made the API call.
func (e AWSEvent) Actor() string {
	return e.Detail.UserIdentity.SessionContext.SessionIssuer.UserName
}

// DecodeEvent converts the raw event payload into an AWSEvent.
func DecodeEvent(data map[string]interface{}) (AWSEvent, error) {
	var e AWSEvent
	if err := mapstructure.Decode(data, &e); err != nil {
		return e, fmt.Errorf("error decoding %s event: %w", e.Source, err)
	}
	return e, nil
}

// Process reconciles the configuration with an account that left the organization.
func (env Environment) Process(ctx context.Context, e AWSEvent) (structs.Status, error) {
	log := env.Logger.With("event", e.Detail.EventName)

	if actor := e.Actor(); actor != "" && actor == env.AutomationRoleName {
		log.Info("Account was moved by the automation role, no operation required", "actor", actor)
		return structs.StatusNoOperationRequired, nil
	}

	accountID := e.Detail.RequestParameters.AccountID
	if accountID == "" {
		return "", errAccountIDUndefined
	}
	log = log.With("account-id", accountID)
	log.Info("Reading account information from request",
		"source-parent", e.Detail.RequestParameters.SourceParentID,
		"destination-parent", e.Detail.RequestParameters.DestinationParentID)

	account, ok, err := env.Registry.Lookup(ctx, accountID)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn("Account was not created by the automation, no operation required")
		return structs.StatusNoOperationRequired, nil
	}

	remover := accountconfig.Remover{
		Settings: env.settings(),
		Store:    env.Store,
		Logger:   log,
	}
	res, err := remover.Remove(ctx, account)
	if err != nil {
		return "", fmt.Errorf("removing account %s from configuration: %w", account.ID, err)
	}

	log.Info("Processed account", "status", res.Status, "path", res.Path, "key", res.Key, "outcome", res.Outcome)
	return res.Status, nil
}
