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

package servicegroup

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"

	"github.com/wwjiang007/nova/pkg/common/background"
	"github.com/wwjiang007/nova/pkg/common/backoff"
)

const (
	_reporterWorkName = "servicegroup_heartbeat"

	_joinInitialBackoff = time.Second
	_joinMaxBackoff     = 30 * time.Second
	_joinBackoffFactor  = 2
)

// Heartbeater is the remote end a Reporter reports to.
type Heartbeater interface {
	Join(ctx context.Context, host, topic, binary string) error
	Heartbeat(ctx context.Context, host, topic, binary string) error
}

// Reporter keeps the record of a local service alive by joining the
// service group once and then heartbeating periodically.
type Reporter struct {
	heartbeater Heartbeater
	host        string
	topic       string
	binary      string

	joined      atomic.Bool
	joinBackoff backoff.RetryPolicy
	manager     background.Manager

	heartbeats    tally.Counter
	heartbeatFail tally.Counter
}

// NewReporter returns a Reporter heartbeating every interval.
func NewReporter(
	heartbeater Heartbeater,
	host, topic, binary string,
	interval time.Duration,
	parent tally.Scope) (*Reporter, error) {
	scope := parent.SubScope("reporter")
	r := &Reporter{
		heartbeater: heartbeater,
		host:        host,
		topic:       topic,
		binary:      binary,
		joinBackoff: backoff.NewExponentialRetryPolicy(
			0,
			_joinInitialBackoff,
			_joinBackoffFactor,
			_joinMaxBackoff,
		),
		manager:       background.NewManager(),
		heartbeats:    scope.Tagged(map[string]string{"result": "success"}).Counter("heartbeat"),
		heartbeatFail: scope.Tagged(map[string]string{"result": "fail"}).Counter("heartbeat"),
	}

	err := r.manager.RegisterWorks(background.Work{
		Name:   _reporterWorkName,
		Func:   r.report,
		Period: interval,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins reporting in the background.
func (r *Reporter) Start() {
	r.manager.Start()
}

// Stop stops reporting and waits for an in flight report to return.
func (r *Reporter) Stop() {
	r.manager.Stop()
}

// Joined returns whether the service joined the group.
func (r *Reporter) Joined() bool {
	return r.joined.Load()
}

func (r *Reporter) report(ctx context.Context) {
	logger := log.WithFields(log.Fields{
		"host":  r.host,
		"topic": r.topic,
	})

	if !r.joined.Load() {
		err := backoff.Retry(ctx, func() error {
			err := r.heartbeater.Join(ctx, r.host, r.topic, r.binary)
			if err != nil {
				logger.WithError(err).Warn("Failed to join service group, retrying")
			}
			return err
		}, r.joinBackoff)
		if err != nil {
			logger.WithError(err).Info("Gave up joining service group")
			return
		}
		r.joined.Store(true)
		logger.Info("Joined service group")
		return
	}

	if err := r.heartbeater.Heartbeat(ctx, r.host, r.topic, r.binary); err != nil {
		r.heartbeatFail.Inc(1)
		logger.WithError(err).Warn("Failed to heartbeat")
		return
	}
	r.heartbeats.Inc(1)
}
