// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package trace

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// HCLog is a Logger that uses the go-hclog log package to output timer information.
type HCLog struct {
	// Logger is the Logger to use to write the timer information.
	Logger hclog.Logger
	// Level is the log level at which to output the timer data.
	// The default level is Info if a level is not provided.
	Level hclog.Level
}

// NewHCLog returns a Logger that writes to l at the given level.
func NewHCLog(l hclog.Logger, level hclog.Level) HCLog {
	return HCLog{Logger: l, Level: level}
}

// Print writes timer information using the logger's Log function, with the configured level.
func (l HCLog) Print(args ...interface{}) {
	if l.Logger == nil {
		return
	}
	if l.Level == hclog.NoLevel {
		l.Level = hclog.Info
	}
	l.Logger.Log(l.Level, fmt.Sprint(args...))
}
