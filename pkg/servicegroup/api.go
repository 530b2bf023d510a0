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
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	"go.uber.org/multierr"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/wwjiang007/nova/pkg/auth"
)

// API tracks the liveness of services from their heartbeats.
// It implements scheduler.HostProvider.
type API struct {
	driver          Driver
	serviceDownTime time.Duration
	reapAfter       time.Duration
	now             func() time.Time
	metrics         *Metrics
}

// NewAPI returns an API over driver. A nil clock uses time.Now.
func NewAPI(
	driver Driver,
	cfg Config,
	parent tally.Scope,
	clock func() time.Time) *API {
	cfg.Normalize()
	if clock == nil {
		clock = time.Now
	}
	return &API{
		driver:          driver,
		serviceDownTime: cfg.ServiceDownTime,
		reapAfter:       cfg.ReapAfter,
		now:             clock,
		metrics:         NewMetrics(parent.SubScope("servicegroup")),
	}
}

// Join creates the record of a service, or refreshes it keeping its
// disabled state.
func (a *API) Join(ctx context.Context, host, topic, binary string) (*Service, error) {
	svc, err := a.driver.Get(ctx, topic, host)
	if err == ErrServiceNotFound {
		svc = &Service{Host: host, Topic: topic}
	} else if err != nil {
		a.metrics.JoinFail.Inc(1)
		return nil, err
	}

	if binary != "" {
		svc.Binary = binary
	}
	svc.UpdatedAt = a.now()
	if err := a.driver.Put(ctx, svc); err != nil {
		a.metrics.JoinFail.Inc(1)
		return nil, err
	}

	a.metrics.Join.Inc(1)
	log.WithFields(log.Fields{
		"host":     host,
		"topic":    topic,
		"binary":   svc.Binary,
		"disabled": svc.Disabled,
	}).Info("Service joined")
	return svc, nil
}

// Heartbeat refreshes the record of a service, joining it when no record
// exists.
func (a *API) Heartbeat(ctx context.Context, host, topic, binary string) (*Service, error) {
	svc, err := a.driver.Get(ctx, topic, host)
	if err == ErrServiceNotFound {
		return a.Join(ctx, host, topic, binary)
	}
	if err != nil {
		a.metrics.HeartbeatFail.Inc(1)
		return nil, err
	}

	svc.UpdatedAt = a.now()
	if err := a.driver.Put(ctx, svc); err != nil {
		a.metrics.HeartbeatFail.Inc(1)
		return nil, err
	}
	a.metrics.Heartbeat.Inc(1)
	return svc, nil
}

// IsUp returns whether svc heartbeated within the service down time.
func (a *API) IsUp(svc *Service) bool {
	return a.now().Sub(svc.UpdatedAt) <= a.serviceDownTime
}

// SetDisabled enables or disables scheduling onto a service. The reason
// is cleared when enabling.
func (a *API) SetDisabled(
	ctx context.Context,
	topic, host string,
	disabled bool,
	reason string) (*Service, error) {
	svc, err := a.driver.Get(ctx, topic, host)
	if err != nil {
		a.metrics.UpdateServiceFail.Inc(1)
		return nil, err
	}

	svc.Disabled = disabled
	svc.DisabledReason = reason
	if !disabled {
		svc.DisabledReason = ""
	}
	if err := a.driver.Put(ctx, svc); err != nil {
		a.metrics.UpdateServiceFail.Inc(1)
		return nil, err
	}

	a.metrics.UpdateService.Inc(1)
	log.WithFields(log.Fields{
		"host":     host,
		"topic":    topic,
		"disabled": disabled,
		"reason":   svc.DisabledReason,
	}).Info("Service updated")
	return svc, nil
}

// ListServices returns every service of a topic along with its status.
func (a *API) ListServices(ctx context.Context, topic string) ([]*ServiceStatus, error) {
	services, err := a.driver.List(ctx, topic)
	if err != nil {
		return nil, err
	}

	result := make([]*ServiceStatus, 0, len(services))
	for _, svc := range services {
		result = append(result, &ServiceStatus{
			Service: *svc,
			Up:      a.IsUp(svc),
		})
	}
	return result, nil
}

// ListAvailableHosts returns the hosts of the enabled services of a
// topic which are up. Only elevated callers may list hosts.
func (a *API) ListAvailableHosts(ctx context.Context, topic string) ([]string, error) {
	if !auth.IsElevated(ctx) {
		a.metrics.ListAvailableHostsFail.Inc(1)
		return nil, yarpcerrors.PermissionDeniedErrorf(
			"listing available hosts requires an elevated context")
	}

	services, err := a.driver.List(ctx, topic)
	if err != nil {
		a.metrics.ListAvailableHostsFail.Inc(1)
		return nil, errors.Wrapf(err, "failed to list hosts of topic %s", topic)
	}

	hosts := make([]string, 0, len(services))
	for _, svc := range services {
		if svc.Disabled || !a.IsUp(svc) {
			continue
		}
		hosts = append(hosts, svc.Host)
	}

	a.metrics.ListAvailableHosts.Inc(1)
	a.metrics.AvailableHosts.Update(float64(len(hosts)))
	return hosts, nil
}

// ReapStale deletes the records of services of a topic which have been
// down for longer than the reap time and returns how many were deleted.
func (a *API) ReapStale(ctx context.Context, topic string) (int, error) {
	if a.reapAfter <= 0 {
		return 0, nil
	}

	services, err := a.driver.List(ctx, topic)
	if err != nil {
		a.metrics.ReapFail.Inc(1)
		return 0, err
	}

	var (
		reaped int
		errs   error
	)
	now := a.now()
	for _, svc := range services {
		if now.Sub(svc.UpdatedAt) <= a.reapAfter {
			continue
		}
		err := a.driver.Delete(ctx, topic, svc.Host)
		if err == ErrServiceNotFound {
			continue
		}
		if err != nil {
			a.metrics.ReapFail.Inc(1)
			errs = multierr.Append(errs, err)
			continue
		}
		reaped++
		a.metrics.Reaped.Inc(1)
		log.WithFields(log.Fields{
			"host":       svc.Host,
			"topic":      topic,
			"updated_at": svc.UpdatedAt,
		}).Info("Reaped stale service")
	}
	return reaped, errs
}
