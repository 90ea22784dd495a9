// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package trace times store round trips and logs the durations.
package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

type Logger interface {
	Print(args ...interface{})
}

var (
	// enabled controls whether timers log anything. It is off by default so that
	// Start and Since cost next to nothing in production.
	enabled bool
	// logger receives the timer output. By default it discards everything.
	logger Logger = NewHCLog(nil, hclog.NoLevel)
	// tag is prepended to every trace log message.
	tag = "trace"

	mu sync.Mutex
)

func Enabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
}

func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func SetTag(t string) {
	mu.Lock()
	defer mu.Unlock()
	tag = t
}

// Timer measures a single operation.
type Timer struct {
	Tag  string
	Log  Logger
	name string
	t0   time.Time
	on   bool
}

// Start a timer with the specified name.
func Start(name string) *Timer {
	mu.Lock()
	defer mu.Unlock()
	return &Timer{Tag: tag, Log: logger, name: name, t0: time.Now(), on: enabled}
}

// Since logs the time since the timer started. If present the optional args will be appended to the message.
func (t *Timer) Since(args ...interface{}) time.Duration {
	d := time.Since(t.t0)
	if !t.on {
		return d
	}
	if t.Log == nil {
		t.Log = NewHCLog(nil, hclog.NoLevel)
	}
	var msg []interface{}
	if t.Tag != "" {
		msg = []interface{}{t.Tag, " ", t.name, ": ", d}
	} else {
		msg = []interface{}{t.name, ": ", d}
	}
	if len(args) > 0 {
		msg = append(msg, " ", fmt.Sprint(args...))
	}
	t.Log.Print(msg...)
	return d
}
