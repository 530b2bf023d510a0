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

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/yarpc"
	"go.uber.org/yarpc/encoding/json"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/common"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

// ServiceGroup is the service group API served to hosts and operators.
type ServiceGroup interface {
	Join(ctx context.Context, host, topic, binary string) (*servicegroup.Service, error)
	Heartbeat(ctx context.Context, host, topic, binary string) (*servicegroup.Service, error)
	ListServices(ctx context.Context, topic string) ([]*servicegroup.ServiceStatus, error)
	SetDisabled(ctx context.Context, topic, host string, disabled bool, reason string) (*servicegroup.Service, error)
}

// Handler implements the scheduler and service group procedures.
type Handler struct {
	scheduler scheduler.Scheduler
	services  ServiceGroup
	metrics   *Metrics
}

// InitServiceHandler registers the procedures of the scheduler on d.
func InitServiceHandler(
	d *yarpc.Dispatcher,
	parent tally.Scope,
	sched scheduler.Scheduler,
	services ServiceGroup) *Handler {
	h := NewHandler(parent, sched, services)
	d.Register(json.Procedure(SelectDestinationsProcedure, h.SelectDestinations))
	d.Register(json.Procedure(JoinProcedure, h.Join))
	d.Register(json.Procedure(HeartbeatProcedure, h.Heartbeat))
	d.Register(json.Procedure(ListServicesProcedure, h.ListServices))
	d.Register(json.Procedure(UpdateServiceProcedure, h.UpdateService))
	log.Info("Scheduler service handlers registered")
	return h
}

// NewHandler returns a Handler which is not registered on any dispatcher.
func NewHandler(
	parent tally.Scope,
	sched scheduler.Scheduler,
	services ServiceGroup) *Handler {
	return &Handler{
		scheduler: sched,
		services:  services,
		metrics:   NewMetrics(parent.SubScope("schedsvc")),
	}
}

// SelectDestinations selects a destination for every requested instance.
func (h *Handler) SelectDestinations(
	ctx context.Context,
	req *SelectDestinationsRequest) (*SelectDestinationsResponse, error) {
	h.metrics.SelectDestinationsAPI.Inc(1)
	if req == nil || req.RequestSpec == nil {
		h.metrics.SelectDestinationsFail.Inc(1)
		return nil, yarpcerrors.InvalidArgumentErrorf("request_spec is required")
	}
	if req.Context != nil {
		ctx = auth.NewContext(ctx, req.Context)
	}

	dests, err := h.scheduler.SelectDestinations(ctx, req.RequestSpec)
	if err != nil {
		h.metrics.SelectDestinationsFail.Inc(1)
		log.WithError(err).
			WithField("request_spec", req.RequestSpec).
			Info("SelectDestinations failed")
		return nil, toYARPCError(err)
	}
	return &SelectDestinationsResponse{Destinations: dests}, nil
}

// Join registers a service.
func (h *Handler) Join(
	ctx context.Context,
	req *HeartbeatRequest) (*HeartbeatResponse, error) {
	h.metrics.JoinAPI.Inc(1)
	topic, err := validateHeartbeat(req)
	if err != nil {
		h.metrics.JoinFail.Inc(1)
		return nil, err
	}

	svc, err := h.services.Join(ctx, req.Host, topic, req.Binary)
	if err != nil {
		h.metrics.JoinFail.Inc(1)
		return nil, toYARPCError(err)
	}
	return &HeartbeatResponse{Service: svc}, nil
}

// Heartbeat refreshes a service.
func (h *Handler) Heartbeat(
	ctx context.Context,
	req *HeartbeatRequest) (*HeartbeatResponse, error) {
	h.metrics.HeartbeatAPI.Inc(1)
	topic, err := validateHeartbeat(req)
	if err != nil {
		h.metrics.HeartbeatFail.Inc(1)
		return nil, err
	}

	svc, err := h.services.Heartbeat(ctx, req.Host, topic, req.Binary)
	if err != nil {
		h.metrics.HeartbeatFail.Inc(1)
		return nil, toYARPCError(err)
	}
	return &HeartbeatResponse{Service: svc}, nil
}

// ListServices lists the services of a topic and whether they are up.
func (h *Handler) ListServices(
	ctx context.Context,
	req *ListServicesRequest) (*ListServicesResponse, error) {
	h.metrics.ListServicesAPI.Inc(1)
	topic := common.ComputeTopic
	if req != nil && req.Topic != "" {
		topic = req.Topic
	}

	services, err := h.services.ListServices(ctx, topic)
	if err != nil {
		h.metrics.ListServicesFail.Inc(1)
		return nil, toYARPCError(err)
	}
	return &ListServicesResponse{Services: services}, nil
}

// UpdateService enables or disables a service.
func (h *Handler) UpdateService(
	ctx context.Context,
	req *UpdateServiceRequest) (*UpdateServiceResponse, error) {
	h.metrics.UpdateServiceAPI.Inc(1)
	if req == nil || req.Host == "" {
		h.metrics.UpdateServiceFail.Inc(1)
		return nil, yarpcerrors.InvalidArgumentErrorf("host is required")
	}
	topic := req.Topic
	if topic == "" {
		topic = common.ComputeTopic
	}

	svc, err := h.services.SetDisabled(ctx, topic, req.Host, req.Disabled, req.DisabledReason)
	if err != nil {
		h.metrics.UpdateServiceFail.Inc(1)
		return nil, toYARPCError(err)
	}
	return &UpdateServiceResponse{Service: svc}, nil
}

func validateHeartbeat(req *HeartbeatRequest) (string, error) {
	if req == nil || req.Host == "" {
		return "", yarpcerrors.InvalidArgumentErrorf("host is required")
	}
	if req.Topic == "" {
		return common.ComputeTopic, nil
	}
	return req.Topic, nil
}

// toYARPCError maps the errors of the scheduler and the service group
// onto yarpc status codes.
func toYARPCError(err error) error {
	if err == nil || yarpcerrors.IsStatus(err) {
		return err
	}

	cause := errors.Cause(err)
	if nvh, ok := cause.(*scheduler.NoValidHostError); ok {
		return yarpcerrors.ResourceExhaustedErrorf("%s", nvh.Reason)
	}
	switch cause {
	case scheduler.ErrInvalidRequest:
		return yarpcerrors.InvalidArgumentErrorf("%s", err.Error())
	case servicegroup.ErrServiceNotFound:
		return yarpcerrors.NotFoundErrorf("%s", err.Error())
	}
	return err
}
