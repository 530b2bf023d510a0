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

package leader

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

// staticCandidate is the single-instance Candidate, it leads while running.
type staticCandidate struct {
	sync.Mutex
	metrics    electionMetrics
	role       string
	nomination Nomination
	running    bool
}

func newStaticCandidate(
	scope tally.Scope,
	role string,
	nomination Nomination) *staticCandidate {
	return &staticCandidate{
		metrics:    newElectionMetrics(scope, role),
		role:       role,
		nomination: nomination,
	}
}

func (c *staticCandidate) Start() error {
	c.Lock()
	defer c.Unlock()

	if c.running {
		return errAlreadyRunning
	}
	c.running = true
	c.metrics.Start.Inc(1)
	c.metrics.Running.Update(1)
	c.metrics.GainedLeadership.Inc(1)
	c.metrics.IsLeader.Update(1)
	log.WithField("role", c.role).Info("Static leadership gained")
	return c.nomination.GainedLeadershipCallback()
}

func (c *staticCandidate) Stop() error {
	c.Lock()
	defer c.Unlock()

	if c.running {
		c.running = false
		c.metrics.Stop.Inc(1)
		c.metrics.Running.Update(0)
		c.metrics.IsLeader.Update(0)
	}
	return c.nomination.ShutDownCallback()
}

func (c *staticCandidate) IsLeader() bool {
	c.Lock()
	defer c.Unlock()
	return c.running
}

// Resign is a no-op, there is nobody to hand leadership to.
func (c *staticCandidate) Resign() {
	c.metrics.Resigned.Inc(1)
}
