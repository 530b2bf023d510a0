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

package common

const (
	// AppLogField is the log field key for the app name
	AppLogField = "app"

	// SchedulerEndpointPath is the path of the scheduler yarpc mux endpoint
	SchedulerEndpointPath = "/api/v1"

	// NovaScheduler is the name of the scheduler service
	NovaScheduler = "nova-scheduler"
	// NovaAgent is the name of the host agent
	NovaAgent = "nova-agent"
	// NovaCLI is the name of the operator CLI
	NovaCLI = "nova-cli"

	// SchedulerRole is the leader election role of the scheduler
	SchedulerRole = "scheduler"

	// ComputeTopic is the default topic compute hosts report on
	ComputeTopic = "compute"
	// ComputeBinary is the default binary name of a compute service
	ComputeBinary = "nova-compute"
)
