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
	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

// Procedure names served by the scheduler.
const (
	SelectDestinationsProcedure = "SchedulerService::SelectDestinations"

	JoinProcedure          = "ServiceGroupService::Join"
	HeartbeatProcedure     = "ServiceGroupService::Heartbeat"
	ListServicesProcedure  = "ServiceGroupService::ListServices"
	UpdateServiceProcedure = "ServiceGroupService::UpdateService"
)

// SelectDestinationsRequest asks for one destination per instance of
// RequestSpec on behalf of the caller in Context.
type SelectDestinationsRequest struct {
	Context     *auth.Context          `json:"context,omitempty"`
	RequestSpec *scheduler.RequestSpec `json:"request_spec"`
}

// SelectDestinationsResponse lists the destinations in instance order.
type SelectDestinationsResponse struct {
	Destinations []scheduler.Destination `json:"destinations"`
}

// HeartbeatRequest reports that a binary is alive on a host. It is used
// both to join and to heartbeat.
type HeartbeatRequest struct {
	Host   string `json:"host"`
	Topic  string `json:"topic"`
	Binary string `json:"binary,omitempty"`
}

// HeartbeatResponse returns the refreshed service record.
type HeartbeatResponse struct {
	Service *servicegroup.Service `json:"service"`
}

// ListServicesRequest lists the services of a topic.
type ListServicesRequest struct {
	Topic string `json:"topic"`
}

// ListServicesResponse lists services ordered by host.
type ListServicesResponse struct {
	Services []*servicegroup.ServiceStatus `json:"services"`
}

// UpdateServiceRequest enables or disables scheduling onto a service.
type UpdateServiceRequest struct {
	Topic          string `json:"topic"`
	Host           string `json:"host"`
	Disabled       bool   `json:"disabled"`
	DisabledReason string `json:"disabled_reason,omitempty"`
}

// UpdateServiceResponse returns the updated service record.
type UpdateServiceResponse struct {
	Service *servicegroup.Service `json:"service"`
}
