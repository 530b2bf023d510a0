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
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"

	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/common/stringset"
)

// ChanceScheduler places every instance on a host chosen uniformly at
// random among the available hosts of its compute topic.
// It keeps no state between calls and is safe for concurrent use.
type ChanceScheduler struct {
	provider HostProvider
	topic    string
	rand     Rand
	metrics  *Metrics
}

// NewChanceScheduler returns a ChanceScheduler querying provider for the
// hosts of topic. A nil rnd uses the process wide math/rand source.
func NewChanceScheduler(
	provider HostProvider,
	topic string,
	scope tally.Scope,
	rnd Rand) *ChanceScheduler {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &ChanceScheduler{
		provider: provider,
		topic:    topic,
		rand:     rnd,
		metrics:  NewMetrics(scope),
	}
}

// SelectDestinations implements Scheduler.
func (s *ChanceScheduler) SelectDestinations(
	ctx context.Context,
	spec *RequestSpec) ([]Destination, error) {
	sw := s.metrics.SelectLatency.Start()
	defer sw.Stop()

	dests, err := s.selectDestinations(ctx, spec)
	if err != nil {
		s.metrics.SelectDestinationsFail.Inc(1)
		return nil, err
	}
	s.metrics.SelectDestinations.Inc(1)
	s.metrics.Destinations.Inc(int64(len(dests)))
	return dests, nil
}

func (s *ChanceScheduler) selectDestinations(
	ctx context.Context,
	spec *RequestSpec) ([]Destination, error) {
	if spec == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "request spec is nil")
	}
	n := spec.InstanceCount
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidRequest, "instance count %d is negative", n)
	}

	ignore := stringset.New(spec.IgnoreHosts...)
	dests := make([]Destination, 0, n)
	for slot := 0; slot < n; slot++ {
		host, err := s.schedule(ctx, ignore)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"instance_uuid": spec.InstanceUUID,
			"project_id":    spec.ProjectID,
			"host":          host,
			"slot":          slot,
		}).Debug("Selected destination")
		dests = append(dests, Destination{Host: host})
	}

	if len(dests) < n {
		return nil, s.noValidHost(ReasonNotEnoughHosts, spec)
	}
	return dests, nil
}

// schedule picks the host of a single slot. Availability is queried
// again for every slot so hosts going up or down mid request are seen.
func (s *ChanceScheduler) schedule(
	ctx context.Context,
	ignore stringset.StringSet) (string, error) {
	elevated := auth.NewContext(ctx, auth.FromContext(ctx).Elevated())

	hosts, err := s.provider.ListAvailableHosts(elevated, s.topic)
	if err != nil {
		s.metrics.ProviderFail.Inc(1)
		return "", err
	}
	if len(hosts) == 0 {
		return "", s.noValidHost(ReasonNoHostsUp, nil)
	}

	candidates := stringset.New()
	for _, h := range hosts {
		if !ignore.Contains(h) {
			candidates.Add(h)
		}
	}
	if candidates.Len() == 0 {
		return "", s.noValidHost(ReasonAllHostsIgnored, nil)
	}

	// sorted so draws from a seeded source are reproducible
	sorted := candidates.ToSlice()
	return sorted[s.rand.Intn(len(sorted))], nil
}

func (s *ChanceScheduler) noValidHost(reason string, spec *RequestSpec) error {
	s.metrics.noValidHost(reason).Inc(1)
	entry := log.WithFields(log.Fields{
		"topic":  s.topic,
		"reason": reason,
	})
	if spec != nil {
		entry = entry.WithField("instance_count", spec.InstanceCount)
	}
	entry.Warn("No valid host found")
	return &NoValidHostError{Reason: reason}
}
