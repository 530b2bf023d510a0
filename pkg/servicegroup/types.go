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
	"errors"
	"time"
)

// ErrServiceNotFound is returned by drivers when no record exists for a
// topic and host.
var ErrServiceNotFound = errors.New("service not found")

// Service is the liveness record of a binary running on a host for a topic.
type Service struct {
	Host           string    `json:"host"`
	Topic          string    `json:"topic"`
	Binary         string    `json:"binary,omitempty"`
	Disabled       bool      `json:"disabled"`
	DisabledReason string    `json:"disabled_reason,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ServiceStatus is a Service along with whether it is currently up.
type ServiceStatus struct {
	Service
	Up bool `json:"up"`
}

// Driver persists service records.
type Driver interface {
	// Put creates or replaces the record of svc.Topic and svc.Host.
	Put(ctx context.Context, svc *Service) error
	// Get returns ErrServiceNotFound when no record exists.
	Get(ctx context.Context, topic, host string) (*Service, error)
	// List returns every record of a topic, ordered by host.
	List(ctx context.Context, topic string) ([]*Service, error)
	// Delete returns ErrServiceNotFound when no record exists.
	Delete(ctx context.Context, topic, host string) error
	Close() error
}
