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
	"encoding/json"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/docker/libkv/store"
	"github.com/docker/libkv/store/zookeeper"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const _kvConnectionTimeout = 5 * time.Second

// KVConfig is the configuration of the ZooKeeper backed driver.
type KVConfig struct {
	ZKServers []string `yaml:"zk_servers"`
	// Root is the path under which records are stored, e.g. /nova/services.
	Root string `yaml:"root"`
}

// KVDriver stores every service record as a JSON document at
// <root>/<topic>/<host> of a libkv store.
type KVDriver struct {
	store store.Store
	root  string
}

// NewKVDriver connects to the ZooKeeper servers of cfg.
func NewKVDriver(cfg KVConfig) (*KVDriver, error) {
	if len(cfg.ZKServers) == 0 {
		return nil, errors.New("kv driver requires zk_servers")
	}
	client, err := zookeeper.New(
		cfg.ZKServers,
		&store.Config{ConnectionTimeout: _kvConnectionTimeout},
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to zookeeper")
	}
	log.WithField("zk_servers", cfg.ZKServers).
		WithField("root", cfg.Root).
		Info("Connected service group kv driver")
	return newKVDriver(client, cfg.Root), nil
}

func newKVDriver(s store.Store, root string) *KVDriver {
	return &KVDriver{
		store: s,
		root:  root,
	}
}

// libkv keys cannot have a leading /
func (d *KVDriver) key(elem ...string) string {
	return strings.TrimPrefix(path.Join(append([]string{d.root}, elem...)...), "/")
}

// Put implements Driver.
func (d *KVDriver) Put(ctx context.Context, svc *Service) error {
	value, err := json.Marshal(svc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal service")
	}
	if err := d.store.Put(d.key(svc.Topic, svc.Host), value, nil); err != nil {
		return errors.Wrapf(err, "failed to put service %s/%s", svc.Topic, svc.Host)
	}
	return nil
}

// Get implements Driver.
func (d *KVDriver) Get(ctx context.Context, topic, host string) (*Service, error) {
	pair, err := d.store.Get(d.key(topic, host))
	if err == store.ErrKeyNotFound {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get service %s/%s", topic, host)
	}
	return decodeService(pair)
}

// List implements Driver.
func (d *KVDriver) List(ctx context.Context, topic string) ([]*Service, error) {
	pairs, err := d.store.List(d.key(topic))
	if err == store.ErrKeyNotFound {
		return []*Service{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list services of %s", topic)
	}

	result := make([]*Service, 0, len(pairs))
	for _, pair := range pairs {
		svc, err := decodeService(pair)
		if err != nil {
			log.WithError(err).
				WithField("key", pair.Key).
				Warn("Skipping undecodable service record")
			continue
		}
		result = append(result, svc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Host < result[j].Host
	})
	return result, nil
}

// Delete implements Driver.
func (d *KVDriver) Delete(ctx context.Context, topic, host string) error {
	err := d.store.Delete(d.key(topic, host))
	if err == store.ErrKeyNotFound {
		return ErrServiceNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "failed to delete service %s/%s", topic, host)
	}
	return nil
}

// Close implements Driver.
func (d *KVDriver) Close() error {
	d.store.Close()
	return nil
}

func decodeService(pair *store.KVPair) (*Service, error) {
	svc := &Service{}
	if err := json.Unmarshal(pair.Value, svc); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal service at %s", pair.Key)
	}
	return svc, nil
}
