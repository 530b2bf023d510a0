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
)

// Metrics is the struct containing all the counters that track the
// chance scheduler.
type Metrics struct {
	SelectDestinations     tally.Counter
	SelectDestinationsFail tally.Counter
	SelectLatency          tally.Timer
	Destinations           tally.Counter

	NoHostsUp       tally.Counter
	AllHostsIgnored tally.Counter
	NotEnoughHosts  tally.Counter
	ProviderFail    tally.Counter
}

// NewMetrics returns a new instance of scheduler.Metrics.
func NewMetrics(scope tally.Scope) *Metrics {
	successScope := scope.Tagged(map[string]string{"result": "success"})
	failScope := scope.Tagged(map[string]string{"result": "fail"})
	noValidHost := func(reason string) tally.Counter {
		return scope.Tagged(map[string]string{"reason": reason}).Counter("no_valid_host")
	}

	return &Metrics{
		SelectDestinations:     successScope.Counter("select_destinations"),
		SelectDestinationsFail: failScope.Counter("select_destinations"),
		SelectLatency:          scope.Timer("select_destinations_latency"),
		Destinations:           scope.Counter("destinations"),

		NoHostsUp:       noValidHost("no_hosts_up"),
		AllHostsIgnored: noValidHost("all_ignored"),
		NotEnoughHosts:  noValidHost("not_enough_hosts"),
		ProviderFail:    scope.Counter("provider_fail"),
	}
}

func (m *Metrics) noValidHost(reason string) tally.Counter {
	switch reason {
	case ReasonNoHostsUp:
		return m.NoHostsUp
	case ReasonAllHostsIgnored:
		return m.AllHostsIgnored
	default:
		return m.NotEnoughHosts
	}
}
