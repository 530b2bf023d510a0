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

package health

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/wwjiang007/nova/pkg/common/background"
)

const (
	// WorkName is the name of the heartbeat background work.
	WorkName = "health_heartbeat"

	_defaultHeartbeatInterval = 10 * time.Second
)

// Config is the health heartbeat configuration.
type Config struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

// Leader reports whether the process currently leads its role.
type Leader interface {
	IsLeader() bool
}

type metrics struct {
	heartbeat tally.Gauge
	leader    tally.Gauge
}

// NewHeartbeatWork returns a background work emitting a heartbeat gauge,
// and a leader gauge which is 1 only while leader leads. A nil leader
// always reports 0.
func NewHeartbeatWork(parent tally.Scope, cfg Config, leader Leader) background.Work {
	scope := parent.SubScope("health")
	m := metrics{
		heartbeat: scope.Gauge("heartbeat"),
		leader:    scope.Gauge("leader"),
	}

	interval := cfg.HeartbeatInterval
	if interval <= 0 {
		interval = _defaultHeartbeatInterval
	}

	return background.Work{
		Name:   WorkName,
		Period: interval,
		Func: func(ctx context.Context) {
			log.Debug("Emitting heartbeat.")
			m.heartbeat.Update(1)
			if leader != nil && leader.IsLeader() {
				m.leader.Update(1)
			} else {
				m.leader.Update(0)
			}
		},
	}
}
