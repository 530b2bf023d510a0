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
	"context"

	"go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/encoding/json"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

// caller is the subset of json.Client used by Client.
type caller interface {
	Call(
		ctx context.Context,
		procedure string,
		reqBody interface{},
		resBodyOut interface{},
		opts ...yarpc.CallOption) error
}

// Client calls the scheduler procedures of a remote scheduler. It
// implements scheduler.Scheduler and servicegroup.Heartbeater.
type Client struct {
	client caller
}

// NewClient returns a Client over the outbound of cc.
func NewClient(cc transport.ClientConfig) *Client {
	return &Client{client: json.New(cc)}
}

// SelectDestinations implements scheduler.Scheduler. The auth context of
// ctx is sent along with the request.
func (c *Client) SelectDestinations(
	ctx context.Context,
	spec *scheduler.RequestSpec) ([]scheduler.Destination, error) {
	var resp SelectDestinationsResponse
	err := c.client.Call(ctx, SelectDestinationsProcedure, &SelectDestinationsRequest{
		Context:     auth.FromContext(ctx),
		RequestSpec: spec,
	}, &resp)
	if err != nil {
		return nil, fromYARPCError(err)
	}
	return resp.Destinations, nil
}

// Join implements servicegroup.Heartbeater.
func (c *Client) Join(ctx context.Context, host, topic, binary string) error {
	var resp HeartbeatResponse
	err := c.client.Call(ctx, JoinProcedure, &HeartbeatRequest{
		Host:   host,
		Topic:  topic,
		Binary: binary,
	}, &resp)
	return fromYARPCError(err)
}

// Heartbeat implements servicegroup.Heartbeater.
func (c *Client) Heartbeat(ctx context.Context, host, topic, binary string) error {
	var resp HeartbeatResponse
	err := c.client.Call(ctx, HeartbeatProcedure, &HeartbeatRequest{
		Host:   host,
		Topic:  topic,
		Binary: binary,
	}, &resp)
	return fromYARPCError(err)
}

// ListServices returns the services of a topic.
func (c *Client) ListServices(
	ctx context.Context,
	topic string) ([]*servicegroup.ServiceStatus, error) {
	var resp ListServicesResponse
	err := c.client.Call(ctx, ListServicesProcedure, &ListServicesRequest{
		Topic: topic,
	}, &resp)
	if err != nil {
		return nil, fromYARPCError(err)
	}
	return resp.Services, nil
}

// SetDisabled enables or disables scheduling onto a service.
func (c *Client) SetDisabled(
	ctx context.Context,
	topic, host string,
	disabled bool,
	reason string) (*servicegroup.Service, error) {
	var resp UpdateServiceResponse
	err := c.client.Call(ctx, UpdateServiceProcedure, &UpdateServiceRequest{
		Topic:          topic,
		Host:           host,
		Disabled:       disabled,
		DisabledReason: reason,
	}, &resp)
	if err != nil {
		return nil, fromYARPCError(err)
	}
	return resp.Service, nil
}

// fromYARPCError maps status codes back onto the errors of the scheduler
// and the service group.
func fromYARPCError(err error) error {
	if err == nil {
		return nil
	}
	status := yarpcerrors.FromError(err)
	switch status.Code() {
	case yarpcerrors.CodeResourceExhausted:
		return &scheduler.NoValidHostError{Reason: status.Message()}
	case yarpcerrors.CodeNotFound:
		return servicegroup.ErrServiceNotFound
	}
	return err
}
