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
	"sync"
	"testing"

	libkvmock "github.com/docker/libkv/store/mock"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
)

type testComponent struct {
	id        string
	events    chan string
	gainedErr error
}

func newTestComponent() *testComponent {
	return &testComponent{
		id:     "testhost:666",
		events: make(chan string, 100),
	}
}

func (x *testComponent) GainedLeadershipCallback() error {
	log.Info("GainedLeadershipCallback called")
	x.events <- "leadership_gained"
	err := x.gainedErr
	x.gainedErr = nil
	return err
}

func (x *testComponent) LostLeadershipCallback() error {
	log.Info("LostLeadershipCallback called")
	x.events <- "leadership_lost"
	return nil
}

func (x *testComponent) ShutDownCallback() error {
	log.Info("ShutdownCallback called")
	x.events <- "shutdown"
	return nil
}

func (x *testComponent) GetID() string { return x.id }

type testLock struct {
	lock   sync.RWMutex
	lostCh chan struct{}
}

func (l *testLock) Lock(stopChan chan struct{}) (<-chan struct{}, error) {
	l.lock.Lock()
	l.lostCh = make(chan struct{})
	return l.lostCh, nil
}

func (l *testLock) Unlock() error {
	l.lock.Unlock()
	close(l.lostCh)
	return nil
}

func TestLeaderZkPath(t *testing.T) {
	assert.Equal(t, "nova/dca1/scheduler/leader", leaderZkPath("/nova/dca1", "scheduler"))
	assert.Equal(t, "scheduler/leader", leaderZkPath("", "scheduler"))
}

func TestNewCandidateRequiresRole(t *testing.T) {
	_, err := NewCandidate(ElectionConfig{}, tally.NoopScope, "", newTestComponent())
	assert.Error(t, err)
}

func TestStaticCandidate(t *testing.T) {
	nomination := newTestComponent()
	c, err := NewCandidate(ElectionConfig{}, tally.NoopScope, "scheduler", nomination)
	require.NoError(t, err)
	assert.False(t, c.IsLeader())

	require.NoError(t, c.Start())
	assert.Equal(t, "leadership_gained", <-nomination.events)
	assert.True(t, c.IsLeader())
	assert.Equal(t, errAlreadyRunning, c.Start())

	c.Resign()
	assert.True(t, c.IsLeader())

	require.NoError(t, c.Stop())
	assert.Equal(t, "shutdown", <-nomination.events)
	assert.False(t, c.IsLeader())
}

func TestLeaderElection(t *testing.T) {
	kv, err := libkvmock.New([]string{}, nil)
	require.NoError(t, err)
	mockStore := kv.(*libkvmock.Mock)
	lock := &testLock{}
	// the mock store returns the same lock for the election key
	mockStore.On("NewLock", "nova/fake/testrole/leader", mock.Anything).Return(lock, nil)

	nomination := newTestComponent()
	scope := tally.NewTestScope("", nil)
	el := newElection(mockStore, "/nova/fake", scope, "testrole", nomination)

	require.NoError(t, el.Start())
	assert.Equal(t, errAlreadyRunning, el.Start())

	// docker/leadership always reports false first
	assert.Equal(t, "leadership_lost", <-nomination.events)
	// the lock always succeeds so we get elected
	assert.Equal(t, "leadership_gained", <-nomination.events)
	assert.True(t, el.IsLeader())

	// resigning unlocks, we get notified and campaign again
	go el.Resign()
	assert.Equal(t, "leadership_lost", <-nomination.events)
	assert.Equal(t, "leadership_gained", <-nomination.events)
	assert.True(t, el.IsLeader())

	require.NoError(t, el.Stop())
	assert.False(t, el.IsLeader())
	for event := range nomination.events {
		if event == "shutdown" {
			break
		}
	}

	counters := scope.Snapshot().Counters()
	var gained int64
	for _, c := range counters {
		if c.Name() == "gained_leadership" {
			gained += c.Value()
		}
	}
	assert.Equal(t, int64(2), gained)
}

func TestGainedLeadershipCallbackFailureResigns(t *testing.T) {
	kv, err := libkvmock.New([]string{}, nil)
	require.NoError(t, err)
	mockStore := kv.(*libkvmock.Mock)
	mockStore.On("NewLock", "nova/testrole/leader", mock.Anything).Return(&testLock{}, nil)

	nomination := newTestComponent()
	nomination.gainedErr = errors.New("cannot start")
	el := newElection(mockStore, "nova", tally.NoopScope, "testrole", nomination)

	require.NoError(t, el.Start())
	assert.Equal(t, "leadership_lost", <-nomination.events)
	assert.Equal(t, "leadership_gained", <-nomination.events)
	// the failed callback resigns, so leadership cycles
	assert.Equal(t, "leadership_lost", <-nomination.events)
	assert.Equal(t, "leadership_gained", <-nomination.events)
	assert.True(t, el.IsLeader())

	require.NoError(t, el.Stop())
}
