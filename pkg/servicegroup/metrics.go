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
	"github.com/uber-go/tally"
)

// Metrics is the struct containing all the counters that track the
// service group API.
type Metrics struct {
	Join     tally.Counter
	JoinFail tally.Counter

	Heartbeat     tally.Counter
	HeartbeatFail tally.Counter

	UpdateService     tally.Counter
	UpdateServiceFail tally.Counter

	ListAvailableHosts     tally.Counter
	ListAvailableHostsFail tally.Counter
	AvailableHosts         tally.Gauge

	Reaped   tally.Counter
	ReapFail tally.Counter
}

// NewMetrics returns a new instance of servicegroup.Metrics.
func NewMetrics(scope tally.Scope) *Metrics {
	successScope := scope.Tagged(map[string]string{"result": "success"})
	failScope := scope.Tagged(map[string]string{"result": "fail"})

	return &Metrics{
		Join:     successScope.Counter("join"),
		JoinFail: failScope.Counter("join"),

		Heartbeat:     successScope.Counter("heartbeat"),
		HeartbeatFail: failScope.Counter("heartbeat"),

		UpdateService:     successScope.Counter("update_service"),
		UpdateServiceFail: failScope.Counter("update_service"),

		ListAvailableHosts:     successScope.Counter("list_available_hosts"),
		ListAvailableHostsFail: failScope.Counter("list_available_hosts"),
		AvailableHosts:         scope.Gauge("available_hosts"),

		Reaped:   successScope.Counter("reaped"),
		ReapFail: failScope.Counter("reaped"),
	}
}
