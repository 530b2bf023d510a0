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

package schedsvc

import (
	"github.com/uber-go/tally"
)

// Metrics is the struct containing all the counters that track the
// scheduler procedures.
type Metrics struct {
	SelectDestinationsAPI  tally.Counter
	SelectDestinationsFail tally.Counter

	JoinAPI  tally.Counter
	JoinFail tally.Counter

	HeartbeatAPI  tally.Counter
	HeartbeatFail tally.Counter

	ListServicesAPI  tally.Counter
	ListServicesFail tally.Counter

	UpdateServiceAPI  tally.Counter
	UpdateServiceFail tally.Counter
}

// NewMetrics returns a new instance of schedsvc.Metrics.
func NewMetrics(scope tally.Scope) *Metrics {
	apiScope := scope.SubScope("api")
	failScope := scope.SubScope("fail")

	return &Metrics{
		SelectDestinationsAPI:  apiScope.Counter("select_destinations"),
		SelectDestinationsFail: failScope.Counter("select_destinations"),

		JoinAPI:  apiScope.Counter("join"),
		JoinFail: failScope.Counter("join"),

		HeartbeatAPI:  apiScope.Counter("heartbeat"),
		HeartbeatFail: failScope.Counter("heartbeat"),

		ListServicesAPI:  apiScope.Counter("list_services"),
		ListServicesFail: failScope.Counter("list_services"),

		UpdateServiceAPI:  apiScope.Counter("update_service"),
		UpdateServiceFail: failScope.Counter("update_service"),
	}
}
