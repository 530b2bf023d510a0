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
	"sort"
	"sync"
)

// MemoryDriver keeps service records in process memory. Records do not
// survive a restart and are not shared between scheduler instances.
type MemoryDriver struct {
	sync.RWMutex
	services map[string]map[string]Service
}

// NewMemoryDriver returns an empty MemoryDriver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{
		services: make(map[string]map[string]Service),
	}
}

// Put implements Driver.
func (d *MemoryDriver) Put(ctx context.Context, svc *Service) error {
	d.Lock()
	defer d.Unlock()

	hosts, ok := d.services[svc.Topic]
	if !ok {
		hosts = make(map[string]Service)
		d.services[svc.Topic] = hosts
	}
	hosts[svc.Host] = *svc
	return nil
}

// Get implements Driver.
func (d *MemoryDriver) Get(ctx context.Context, topic, host string) (*Service, error) {
	d.RLock()
	defer d.RUnlock()

	svc, ok := d.services[topic][host]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// List implements Driver.
func (d *MemoryDriver) List(ctx context.Context, topic string) ([]*Service, error) {
	d.RLock()
	defer d.RUnlock()

	result := make([]*Service, 0, len(d.services[topic]))
	for _, svc := range d.services[topic] {
		svc := svc
		result = append(result, &svc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Host < result[j].Host
	})
	return result, nil
}

// Delete implements Driver.
func (d *MemoryDriver) Delete(ctx context.Context, topic, host string) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.services[topic][host]; !ok {
		return ErrServiceNotFound
	}
	delete(d.services[topic], host)
	if len(d.services[topic]) == 0 {
		delete(d.services, topic)
	}
	return nil
}

// Close implements Driver.
func (d *MemoryDriver) Close() error {
	return nil
}
