// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package scheduler

import (
	"github.com/uber-go/tally"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/wwjiang007/nova/pkg/common"
)

// ChanceDriver is the name of the random scheduler driver.
const ChanceDriver = "chance"

// Config is the scheduler driver configuration.
type Config struct {
	// Driver selects the Scheduler implementation. Empty means chance.
	Driver string `yaml:"driver"`

	// ComputeTopic is the service topic compute hosts report under.
	ComputeTopic string `yaml:"compute_topic"`
}

type options struct {
	rand Rand
}

// Option customizes the Scheduler built by New.
type Option func(*options)

// WithRand sets the random source of the scheduler.
func WithRand(r Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// New returns the Scheduler named by cfg.Driver.
func New(
	cfg Config,
	provider HostProvider,
	parent tally.Scope,
	opts ...Option) (Scheduler, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	topic := cfg.ComputeTopic
	if topic == "" {
		topic = common.ComputeTopic
	}

	switch cfg.Driver {
	case "", ChanceDriver:
		return NewChanceScheduler(
			provider,
			topic,
			parent.SubScope("scheduler"),
			o.rand,
		), nil
	default:
		return nil, yarpcerrors.InvalidArgumentErrorf(
			"unknown scheduler driver %q", cfg.Driver)
	}
}
