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

package config

import (
	"time"

	"github.com/wwjiang007/nova/pkg/common"
	"github.com/wwjiang007/nova/pkg/common/health"
	"github.com/wwjiang007/nova/pkg/common/leader"
	"github.com/wwjiang007/nova/pkg/common/logging"
	"github.com/wwjiang007/nova/pkg/common/metrics"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

const (
	_defaultHTTPPort             = 5300
	_defaultGRPCPort             = 5301
	_defaultPeriodicTaskInterval = time.Minute
)

// Config holds all configs to run a scheduler.
type Config struct {
	Metrics      metrics.Config        `yaml:"metrics"`
	Scheduler    SchedulerConfig       `yaml:"scheduler"`
	ServiceGroup servicegroup.Config   `yaml:"servicegroup"`
	Election     leader.ElectionConfig `yaml:"election"`
	Health       health.Config         `yaml:"health"`
	SentryConfig logging.SentryConfig  `yaml:"sentry"`
}

// SchedulerConfig is scheduler daemon specific config
type SchedulerConfig struct {
	scheduler.Config `yaml:",inline"`

	// HTTP port which the scheduler is listening on
	HTTPPort int `yaml:"http_port" validate:"min=0,max=65535"`

	// GRPC port which the scheduler is listening on
	GRPCPort int `yaml:"grpc_port" validate:"min=0,max=65535"`

	// PeriodicTaskInterval is how often the leader reaps stale services.
	PeriodicTaskInterval time.Duration `yaml:"periodic_task_interval"`
}

// Normalize fills in defaults for unset values.
func (c *Config) Normalize() {
	if c.Scheduler.HTTPPort == 0 {
		c.Scheduler.HTTPPort = _defaultHTTPPort
	}
	if c.Scheduler.GRPCPort == 0 {
		c.Scheduler.GRPCPort = _defaultGRPCPort
	}
	if c.Scheduler.PeriodicTaskInterval <= 0 {
		c.Scheduler.PeriodicTaskInterval = _defaultPeriodicTaskInterval
	}
	if c.Scheduler.Driver == "" {
		c.Scheduler.Driver = scheduler.ChanceDriver
	}
	if c.Scheduler.ComputeTopic == "" {
		c.Scheduler.ComputeTopic = common.ComputeTopic
	}
	c.ServiceGroup.Normalize()
}
