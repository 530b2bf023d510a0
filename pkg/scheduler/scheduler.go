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
)

// HostProvider lists the hosts currently reporting as available for a
// service topic. An empty result is not an error.
type HostProvider interface {
	ListAvailableHosts(ctx context.Context, topic string) ([]string, error)
}

// Scheduler chooses a destination host for every instance of a request.
type Scheduler interface {
	// SelectDestinations returns exactly spec.InstanceCount destinations,
	// or an error and no destinations at all.
	SelectDestinations(ctx context.Context, spec *RequestSpec) ([]Destination, error)
}

// RequestSpec describes a placement request.
type RequestSpec struct {
	// InstanceCount is the number of destinations to select.
	InstanceCount int `json:"instance_count"`
	// IgnoreHosts are never selected, e.g. hosts which already failed
	// a build for this request.
	IgnoreHosts []string `json:"ignore_hosts,omitempty"`

	// InstanceUUID and ProjectID identify the request in logs only.
	InstanceUUID string `json:"instance_uuid,omitempty"`
	ProjectID    string `json:"project_id,omitempty"`
}

// Destination is the placement decision for a single instance.
// NodeName and Limits are never set by the chance scheduler.
type Destination struct {
	Host     string             `json:"host"`
	NodeName *string            `json:"nodename"`
	Limits   map[string]float64 `json:"limits"`
}
