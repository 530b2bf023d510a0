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
	"time"

	"go.uber.org/yarpc/yarpcerrors"
)

// Names of the service group drivers.
const (
	MemoryDriverName    = "memory"
	KVDriverName        = "kv"
	CassandraDriverName = "cassandra"
)

const (
	_defaultServiceDownTime = 60 * time.Second
	_defaultReportInterval  = 10 * time.Second
)

// Config is the service group configuration.
type Config struct {
	// Driver is one of memory, kv or cassandra. Empty means memory.
	Driver string `yaml:"driver"`

	// ServiceDownTime is the maximum age of the last heartbeat of a
	// service for it to be considered up.
	ServiceDownTime time.Duration `yaml:"service_down_time"`

	// ReportInterval is how often hosts heartbeat.
	ReportInterval time.Duration `yaml:"report_interval"`

	// ReapAfter is how long a service stays down before its record is
	// deleted. Zero disables reaping.
	ReapAfter time.Duration `yaml:"reap_after"`

	KV        KVConfig        `yaml:"kv"`
	Cassandra CassandraConfig `yaml:"cassandra"`
}

// Normalize fills in defaults for unset values.
func (c *Config) Normalize() {
	if c.Driver == "" {
		c.Driver = MemoryDriverName
	}
	if c.ServiceDownTime <= 0 {
		c.ServiceDownTime = _defaultServiceDownTime
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = _defaultReportInterval
	}
}

// NewDriver returns the Driver named by cfg.Driver.
func NewDriver(cfg Config) (Driver, error) {
	switch cfg.Driver {
	case "", MemoryDriverName:
		return NewMemoryDriver(), nil
	case KVDriverName:
		d, err := NewKVDriver(cfg.KV)
		if err != nil {
			return nil, err
		}
		return d, nil
	case CassandraDriverName:
		d, err := NewCassandraDriver(cfg.Cassandra)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, yarpcerrors.InvalidArgumentErrorf(
			"unknown service group driver %q", cfg.Driver)
	}
}
