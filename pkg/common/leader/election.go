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
	"errors"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/docker/leadership"
	"github.com/docker/libkv/store"
	"github.com/docker/libkv/store/zookeeper"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

const (
	// ttl is the election ttl for docker/leadership.
	// Caution: required but not used by the zookeeper backend.
	ttl = 5 * time.Second

	// znodeEphemeralTimeout is the session timeout after which the
	// ephemeral election node disappears if the host loses ZK.
	znodeEphemeralTimeout = 5 * time.Second

	// zkConnErrRetry is how long to wait before campaigning again after a
	// connection error.
	zkConnErrRetry = 30 * time.Second
)

var errAlreadyRunning = errors.New("election is already running")

// ElectionConfig is config related to leader election of this service.
type ElectionConfig struct {
	// ZK servers to use for leader election. Leave empty to run without
	// election, in which case the process always leads.
	ZKServers []string `yaml:"zk_servers"`

	// The root path in ZK to use for role leader election, e.g. /nova/dca1.
	Root string `yaml:"root"`
}

// election holds the state of the zk election.
type election struct {
	sync.Mutex
	metrics    electionMetrics
	running    bool
	role       string
	candidate  *leadership.Candidate
	nomination Nomination
	stopChan   chan struct{}
	retry      time.Duration
}

// NewCandidate creates a Candidate for the role. Without ZK servers
// configured it returns a static candidate which leads as soon as it starts.
func NewCandidate(
	cfg ElectionConfig,
	parent tally.Scope,
	role string,
	nomination Nomination) (Candidate, error) {
	if role == "" {
		return nil, errors.New("a non-empty role is required to campaign")
	}

	scope := parent.SubScope("election")
	if len(cfg.ZKServers) == 0 {
		log.WithField("role", role).
			Warn("No election ZK servers configured, running as static leader")
		return newStaticCandidate(scope, role, nomination), nil
	}

	client, err := zookeeper.New(
		cfg.ZKServers,
		&store.Config{ConnectionTimeout: znodeEphemeralTimeout},
	)
	if err != nil {
		return nil, err
	}
	return newElection(client, cfg.Root, scope, role, nomination), nil
}

func newElection(
	client store.Store,
	root string,
	scope tally.Scope,
	role string,
	nomination Nomination) *election {
	leaderPath := leaderZkPath(root, role)
	log.WithFields(log.Fields{
		"id":          nomination.GetID(),
		"role":        role,
		"leader_path": leaderPath,
	}).Debug("Creating new Candidate")

	return &election{
		metrics:    newElectionMetrics(scope, role),
		role:       role,
		nomination: nomination,
		candidate:  leadership.NewCandidate(client, leaderPath, nomination.GetID(), ttl),
		stopChan:   make(chan struct{}),
		retry:      zkConnErrRetry,
	}
}

// Start begins campaigning for leadership and invokes the nomination
// callbacks when leadership is gained or lost. It retries on connection
// errors until Stop is called.
func (el *election) Start() error {
	el.Lock()
	defer el.Unlock()

	if el.running {
		return errAlreadyRunning
	}
	el.running = true
	el.metrics.Start.Inc(1)
	el.metrics.Running.Update(1)

	log.WithField("role", el.role).Info("Joining election")
	go el.campaign()
	return nil
}

func (el *election) campaign() {
	for {
		select {
		case <-el.stopChan:
			log.WithField("role", el.role).Info("Stopped running election")
			return
		default:
		}

		if err := el.waitForEvent(); err != nil {
			log.WithError(err).
				WithField("role", el.role).
				Error("Failure running election; retrying")
			select {
			case <-el.stopChan:
				return
			case <-time.After(el.retry):
			}
		}
	}
}

// waitForEvent blocks until the election channel closes or errors.
func (el *election) waitForEvent() error {
	electionCh, errCh := el.candidate.RunForElection()

	for {
		select {
		case isElected, ok := <-electionCh:
			if !ok {
				return nil
			}
			if isElected {
				el.gainedLeadership()
			} else {
				el.lostLeadership()
			}
		case err := <-errCh:
			if err != nil {
				el.metrics.Error.Inc(1)
				return err
			}
			// shutdown signal from docker/leadership
			return nil
		}
	}
}

func (el *election) gainedLeadership() {
	log.WithFields(log.Fields{
		"id":   el.nomination.GetID(),
		"role": el.role,
	}).Info("Leadership gained")
	el.metrics.GainedLeadership.Inc(1)
	el.metrics.IsLeader.Update(1)

	if err := el.nomination.GainedLeadershipCallback(); err != nil {
		log.WithError(err).
			WithField("role", el.role).
			Error("GainedLeadershipCallback failed, resigning")
		el.candidate.Resign()
	}
}

func (el *election) lostLeadership() {
	log.WithFields(log.Fields{
		"id":   el.nomination.GetID(),
		"role": el.role,
	}).Info("Leadership lost")
	el.metrics.LostLeadership.Inc(1)
	el.metrics.IsLeader.Update(0)

	if err := el.nomination.LostLeadershipCallback(); err != nil {
		log.WithError(err).
			WithField("role", el.role).
			Error("LostLeadershipCallback failed")
	}
}

// Stop stops campaigning and calls the shutdown callback.
func (el *election) Stop() error {
	el.Lock()
	defer el.Unlock()

	if el.running {
		el.running = false
		close(el.stopChan)
		el.candidate.Stop()
		el.metrics.Stop.Inc(1)
		el.metrics.Running.Update(0)
		el.metrics.IsLeader.Update(0)
	}
	return el.nomination.ShutDownCallback()
}

// IsLeader returns whether this candidate is the current leader.
func (el *election) IsLeader() bool {
	el.Lock()
	defer el.Unlock()

	// the candidate keeps reporting leader after a resign, so gate on
	// whether we are still campaigning
	return el.running && el.candidate.IsLeader()
}

// Resign gives up leadership.
func (el *election) Resign() {
	el.metrics.Resigned.Inc(1)
	el.candidate.Resign()
}

// leaderZkPath returns the ZK path of the election node for a role.
func leaderZkPath(rootPath string, role string) string {
	// libkv keys cannot have a leading /
	return strings.TrimPrefix(path.Join(rootPath, role, "leader"), "/")
}
