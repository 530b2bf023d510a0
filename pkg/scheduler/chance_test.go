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

package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"

	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/scheduler/mocks"
)

const _topic = "compute"

var errProvider = errors.New("provider unavailable")

// fixedRand always draws the same index.
type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

type ChanceSchedulerTestSuite struct {
	suite.Suite

	mockCtrl  *gomock.Controller
	provider  *mocks.MockHostProvider
	scope     tally.TestScope
	scheduler *scheduler.ChanceScheduler
}

func (suite *ChanceSchedulerTestSuite) SetupTest() {
	suite.mockCtrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockHostProvider(suite.mockCtrl)
	suite.scope = tally.NewTestScope("", nil)
	suite.scheduler = scheduler.NewChanceScheduler(
		suite.provider,
		_topic,
		suite.scope,
		scheduler.NewSeededRand(42),
	)
}

func (suite *ChanceSchedulerTestSuite) TearDownTest() {
	suite.mockCtrl.Finish()
}

func TestChanceScheduler(t *testing.T) {
	suite.Run(t, new(ChanceSchedulerTestSuite))
}

func (suite *ChanceSchedulerTestSuite) counter(name string, tags map[string]string) int64 {
	var total int64
	for _, c := range suite.scope.Snapshot().Counters() {
		if c.Name() != name {
			continue
		}
		matched := true
		for k, v := range tags {
			if c.Tags()[k] != v {
				matched = false
			}
		}
		if matched {
			total += c.Value()
		}
	}
	return total
}

func (suite *ChanceSchedulerTestSuite) requireNoValidHost(err error, reason string) {
	suite.Require().Error(err)
	suite.True(scheduler.IsNoValidHost(err))
	nvh, ok := err.(*scheduler.NoValidHostError)
	suite.Require().True(ok)
	suite.Equal(reason, nvh.Reason)
}

// Every successful call returns exactly the requested number of
// destinations, all drawn from the available hosts.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsCountAndMembership() {
	available := []string{"a", "b", "c"}
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return(available, nil).
		Times(5)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 5},
	)
	suite.NoError(err)
	suite.Len(dests, 5)
	for _, d := range dests {
		suite.Contains(available, d.Host)
		suite.Nil(d.NodeName)
		suite.Nil(d.Limits)
	}

	suite.Equal(int64(1), suite.counter("select_destinations", map[string]string{"result": "success"}))
	suite.Equal(int64(5), suite.counter("destinations", nil))
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsNoHostsUp() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{}, nil)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 1},
	)
	suite.Nil(dests)
	suite.requireNoValidHost(err, scheduler.ReasonNoHostsUp)

	suite.Equal(int64(1), suite.counter("select_destinations", map[string]string{"result": "fail"}))
	suite.Equal(int64(1), suite.counter("no_valid_host", map[string]string{"reason": "no_hosts_up"}))
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsAllHostsIgnored() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{"A", "B"}, nil)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{
			InstanceCount: 2,
			IgnoreHosts:   []string{"B", "A"},
		},
	)
	suite.Nil(dests)
	suite.requireNoValidHost(err, scheduler.ReasonAllHostsIgnored)
	suite.Equal(int64(1), suite.counter("no_valid_host", map[string]string{"reason": "all_ignored"}))
}

// A single available host is reused for every slot.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsRepeatsHosts() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{"A"}, nil).
		Times(3)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 3},
	)
	suite.NoError(err)
	suite.Equal([]scheduler.Destination{{Host: "A"}, {Host: "A"}, {Host: "A"}}, dests)
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsHonorsIgnoreHosts() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{"host1", "host2"}, nil).
		Times(2)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{
			InstanceCount: 2,
			IgnoreHosts:   []string{"host2"},
		},
	)
	suite.NoError(err)
	suite.Equal([]scheduler.Destination{{Host: "host1"}, {Host: "host1"}}, dests)
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsZeroInstances() {
	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 0},
	)
	suite.NoError(err)
	suite.NotNil(dests)
	suite.Empty(dests)
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsInvalidRequest() {
	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: -1},
	)
	suite.Nil(dests)
	suite.True(scheduler.IsInvalidRequest(err))
	suite.False(scheduler.IsNoValidHost(err))

	dests, err = suite.scheduler.SelectDestinations(context.Background(), nil)
	suite.Nil(dests)
	suite.True(scheduler.IsInvalidRequest(err))
}

// Provider failures are returned as is, never turned into NoValidHost.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsProviderError() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return(nil, errProvider)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 1},
	)
	suite.Nil(dests)
	suite.True(err == errProvider)
	suite.False(scheduler.IsNoValidHost(err))
	suite.Equal(int64(1), suite.counter("provider_fail", nil))
}

// A failure on a later slot discards the destinations of earlier slots.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsAbortsMidRequest() {
	gomock.InOrder(
		suite.provider.EXPECT().
			ListAvailableHosts(gomock.Any(), _topic).
			Return([]string{"A"}, nil),
		suite.provider.EXPECT().
			ListAvailableHosts(gomock.Any(), _topic).
			Return(nil, nil),
	)

	dests, err := suite.scheduler.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 3},
	)
	suite.Nil(dests)
	suite.requireNoValidHost(err, scheduler.ReasonNoHostsUp)
}

// The provider is queried with an elevated copy of the caller context.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsElevatesContext() {
	caller := &auth.Context{UserID: "user", Roles: []string{"member"}}
	ctx := auth.NewContext(context.Background(), caller)

	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		DoAndReturn(func(ctx context.Context, topic string) ([]string, error) {
			suite.True(auth.IsElevated(ctx))
			suite.Equal("user", auth.FromContext(ctx).UserID)
			return []string{"A"}, nil
		})

	_, err := suite.scheduler.SelectDestinations(ctx, &scheduler.RequestSpec{InstanceCount: 1})
	suite.NoError(err)
	suite.False(caller.IsAdmin)
	suite.Equal([]string{"member"}, caller.Roles)
	suite.Same(caller, auth.FromContext(ctx))
}

// Candidates are ordered before drawing, so the provider's ordering does
// not change the outcome of a given draw.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsDrawsFromSortedCandidates() {
	s := scheduler.NewChanceScheduler(suite.provider, _topic, tally.NoopScope, fixedRand(0))
	gomock.InOrder(
		suite.provider.EXPECT().
			ListAvailableHosts(gomock.Any(), _topic).
			Return([]string{"c", "a", "b"}, nil),
		suite.provider.EXPECT().
			ListAvailableHosts(gomock.Any(), _topic).
			Return([]string{"b", "c", "a", "a"}, nil),
	)

	dests, err := s.SelectDestinations(context.Background(), &scheduler.RequestSpec{InstanceCount: 2})
	suite.NoError(err)
	suite.Equal([]scheduler.Destination{{Host: "a"}, {Host: "a"}}, dests)
}

// Each host of {A, B, C} is drawn with roughly equal frequency.
func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsUniform() {
	const calls = 3000
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{"A", "B", "C"}, nil).
		Times(calls)

	counts := make(map[string]int)
	for i := 0; i < calls; i++ {
		s := scheduler.NewChanceScheduler(
			suite.provider,
			_topic,
			tally.NoopScope,
			scheduler.NewSeededRand(int64(i)),
		)
		dests, err := s.SelectDestinations(
			context.Background(),
			&scheduler.RequestSpec{InstanceCount: 1},
		)
		suite.Require().NoError(err)
		counts[dests[0].Host]++
	}

	suite.Len(counts, 3)
	for host, count := range counts {
		suite.InDelta(calls/3, count, 200, fmt.Sprintf("host %s drawn %d times", host, count))
	}
}

func (suite *ChanceSchedulerTestSuite) TestSelectDestinationsConcurrent() {
	suite.provider.EXPECT().
		ListAvailableHosts(gomock.Any(), _topic).
		Return([]string{"A", "B"}, nil).
		AnyTimes()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dests, err := suite.scheduler.SelectDestinations(
				context.Background(),
				&scheduler.RequestSpec{InstanceCount: 4},
			)
			if err == nil && len(dests) != 4 {
				err = fmt.Errorf("got %d destinations", len(dests))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		suite.NoError(err)
	}
}
