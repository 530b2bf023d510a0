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

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultConnectionsPerHost = 3
	defaultTimeout            = 20 * time.Second
	defaultProtoVersion       = 3
	defaultConsistency        = "LOCAL_QUORUM"
	defaultSocketKeepAlive    = 30 * time.Second
	defaultPageSize           = 1000
	defaultPort               = 9042
	defaultKeyspace           = "nova"
	defaultRetryCount         = 3
)

const (
	_createServicesTable = `CREATE TABLE IF NOT EXISTS services (
  topic text,
  host text,
  binary text,
  disabled boolean,
  disabled_reason text,
  updated_at timestamp,
  PRIMARY KEY (topic, host)
)`
	_insertService = `INSERT INTO services
  (topic, host, binary, disabled, disabled_reason, updated_at)
  VALUES (?, ?, ?, ?, ?, ?)`
	_selectService = `SELECT binary, disabled, disabled_reason, updated_at
  FROM services WHERE topic = ? AND host = ?`
	_selectServices = `SELECT host, binary, disabled, disabled_reason, updated_at
  FROM services WHERE topic = ?`
	_deleteService = `DELETE FROM services WHERE topic = ? AND host = ? IF EXISTS`
)

// CassandraConfig is the connection configuration of the Cassandra
// backed driver.
type CassandraConfig struct {
	ContactPoints      []string      `yaml:"contact_points"`
	Port               int           `yaml:"port"`
	Keyspace           string        `yaml:"keyspace"`
	Username           string        `yaml:"username"`
	Password           string        `yaml:"password"`
	Consistency        string        `yaml:"consistency"`
	Timeout            time.Duration `yaml:"timeout"`
	ConnectionsPerHost int           `yaml:"connections_per_host"`
	ProtoVersion       int           `yaml:"proto_version"`
	SocketKeepalive    time.Duration `yaml:"socket_keepalive"`
	PageSize           int           `yaml:"page_size"`
	DataCenter         string        `yaml:"data_center"`
	RetryCount         int           `yaml:"retry_count"`
}

// CassandraDriver stores service records in the services table of a
// Cassandra keyspace, partitioned by topic.
type CassandraDriver struct {
	session *gocql.Session
}

// NewCassandraDriver opens a session on the keyspace of cfg.
func NewCassandraDriver(cfg CassandraConfig) (*CassandraDriver, error) {
	cluster := newCluster(cfg)
	session, err := cluster.CreateSession()
	if err != nil {
		log.WithError(err).Error("Fail to create C* session")
		return nil, errors.Wrap(err, "failed to create cassandra session")
	}
	log.WithFields(log.Fields{
		"key_space":      cluster.Keyspace,
		"cassandra_port": cluster.Port,
	}).Info("C* Session Created.")
	return &CassandraDriver{session: session}, nil
}

func newCluster(cfg CassandraConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.ContactPoints...)

	cluster.Keyspace = cfg.Keyspace
	if cluster.Keyspace == "" {
		cluster.Keyspace = defaultKeyspace
	}

	consistency := cfg.Consistency
	if consistency == "" {
		consistency = defaultConsistency
	}
	cluster.Consistency = gocql.ParseConsistency(consistency)

	cluster.Timeout = cfg.Timeout
	if cluster.Timeout == 0 {
		cluster.Timeout = defaultTimeout
	}

	cluster.NumConns = cfg.ConnectionsPerHost
	if cluster.NumConns == 0 {
		cluster.NumConns = defaultConnectionsPerHost
	}

	cluster.ProtoVersion = cfg.ProtoVersion
	if cluster.ProtoVersion == 0 {
		cluster.ProtoVersion = defaultProtoVersion
	}

	cluster.SocketKeepalive = cfg.SocketKeepalive
	if cluster.SocketKeepalive == 0 {
		cluster.SocketKeepalive = defaultSocketKeepAlive
	}

	cluster.PageSize = cfg.PageSize
	if cluster.PageSize == 0 {
		cluster.PageSize = defaultPageSize
	}

	cluster.Port = cfg.Port
	if cluster.Port == 0 {
		cluster.Port = defaultPort
	}

	if cfg.DataCenter != "" {
		cluster.HostFilter = gocql.DataCentreHostFilter(cfg.DataCenter)
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(cfg.DataCenter))
	} else {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.RoundRobinHostPolicy())
	}

	retries := cfg.RetryCount
	if retries == 0 {
		retries = defaultRetryCount
	}
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: retries}

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster
}

// EnsureSchema creates the services table when missing.
func (d *CassandraDriver) EnsureSchema(ctx context.Context) error {
	if err := d.session.Query(_createServicesTable).WithContext(ctx).Exec(); err != nil {
		return errors.Wrap(err, "failed to create services table")
	}
	return nil
}

// Put implements Driver.
func (d *CassandraDriver) Put(ctx context.Context, svc *Service) error {
	err := d.session.Query(
		_insertService,
		svc.Topic,
		svc.Host,
		svc.Binary,
		svc.Disabled,
		svc.DisabledReason,
		svc.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return errors.Wrapf(err, "failed to put service %s/%s", svc.Topic, svc.Host)
	}
	return nil
}

// Get implements Driver.
func (d *CassandraDriver) Get(ctx context.Context, topic, host string) (*Service, error) {
	svc := &Service{Topic: topic, Host: host}
	err := d.session.Query(_selectService, topic, host).
		WithContext(ctx).
		Scan(&svc.Binary, &svc.Disabled, &svc.DisabledReason, &svc.UpdatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get service %s/%s", topic, host)
	}
	return svc, nil
}

// List implements Driver. Rows are clustered by host, so they come back
// ordered.
func (d *CassandraDriver) List(ctx context.Context, topic string) ([]*Service, error) {
	iter := d.session.Query(_selectServices, topic).WithContext(ctx).Iter()

	var result []*Service
	for {
		svc := &Service{Topic: topic}
		if !iter.Scan(
			&svc.Host,
			&svc.Binary,
			&svc.Disabled,
			&svc.DisabledReason,
			&svc.UpdatedAt) {
			break
		}
		result = append(result, svc)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to list services of %s", topic)
	}
	if result == nil {
		result = []*Service{}
	}
	return result, nil
}

// Delete implements Driver.
func (d *CassandraDriver) Delete(ctx context.Context, topic, host string) error {
	applied, err := d.session.Query(_deleteService, topic, host).
		WithContext(ctx).
		ScanCAS()
	if err != nil {
		return errors.Wrapf(err, "failed to delete service %s/%s", topic, host)
	}
	if !applied {
		return ErrServiceNotFound
	}
	return nil
}

// Close implements Driver.
func (d *CassandraDriver) Close() error {
	d.session.Close()
	return nil
}
