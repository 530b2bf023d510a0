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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/multierr"
	"go.uber.org/yarpc"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/wwjiang007/nova/pkg/common"
	"github.com/wwjiang007/nova/pkg/common/background"
	common_config "github.com/wwjiang007/nova/pkg/common/config"
	"github.com/wwjiang007/nova/pkg/common/health"
	"github.com/wwjiang007/nova/pkg/common/leader"
	"github.com/wwjiang007/nova/pkg/common/logging"
	"github.com/wwjiang007/nova/pkg/common/metrics"
	"github.com/wwjiang007/nova/pkg/common/rpc"
	"github.com/wwjiang007/nova/pkg/schedsvc"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/scheduler/config"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

var (
	version string
	app     = kingpin.New(common.NovaScheduler, "Nova chance scheduler")

	debug = app.Flag(
		"debug", "enable debug mode (print full json responses)").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	enableSentry = app.Flag(
		"enable-sentry", "enable logging hook up to sentry").
		Default("false").
		Envar("ENABLE_SENTRY_LOGGING").
		Bool()

	cfgFiles = app.Flag(
		"config",
		"YAML config files (can be provided multiple times to merge configs)").
		Short('c').
		Required().
		ExistingFiles()

	httpPort = app.Flag(
		"http-port",
		"Scheduler HTTP port (scheduler.http_port override) "+
			"(set $HTTP_PORT to override)").
		Envar("HTTP_PORT").
		Int()

	grpcPort = app.Flag(
		"grpc-port",
		"Scheduler GRPC port (scheduler.grpc_port override) "+
			"(set $GRPC_PORT to override)").
		Envar("GRPC_PORT").
		Int()

	computeTopic = app.Flag(
		"compute-topic",
		"Topic compute hosts report on (scheduler.compute_topic override)").
		Envar("COMPUTE_TOPIC").
		String()

	electionZkServers = app.Flag(
		"election-zk-server",
		"Election Zookeeper servers. Specify multiple times for multiple servers "+
			"(election.zk_servers override) (set $ELECTION_ZK_SERVERS to override)").
		Envar("ELECTION_ZK_SERVERS").
		Strings()

	serviceGroupDriver = app.Flag(
		"servicegroup-driver",
		"Service group driver (servicegroup.driver override)").
		Envar("SERVICEGROUP_DRIVER").
		Enum(servicegroup.MemoryDriverName, servicegroup.KVDriverName, servicegroup.CassandraDriverName)

	serviceGroupZkServers = app.Flag(
		"servicegroup-zk-server",
		"Zookeeper servers of the kv service group driver. Specify multiple "+
			"times for multiple servers (servicegroup.kv.zk_servers override)").
		Envar("SERVICEGROUP_ZK_SERVERS").
		Strings()

	cassandraHosts = app.Flag(
		"cassandra-hosts", "Cassandra hosts").
		Envar("CASSANDRA_HOSTS").
		Strings()

	cassandraPort = app.Flag(
		"cassandra-port", "Cassandra port to connect").
		Default("0").
		Envar("CASSANDRA_PORT").
		Int()

	datacenter = app.Flag(
		"datacenter", "Datacenter name").
		Default("").
		Envar("DATACENTER").
		String()
)

// overrideConfig applies the CLI flags on top of the loaded config.
func overrideConfig(cfg *config.Config) {
	if *httpPort != 0 {
		cfg.Scheduler.HTTPPort = *httpPort
	}
	if *grpcPort != 0 {
		cfg.Scheduler.GRPCPort = *grpcPort
	}
	if *computeTopic != "" {
		cfg.Scheduler.ComputeTopic = *computeTopic
	}
	if len(*electionZkServers) > 0 {
		cfg.Election.ZKServers = *electionZkServers
	}
	if *serviceGroupDriver != "" {
		cfg.ServiceGroup.Driver = *serviceGroupDriver
	}
	if len(*serviceGroupZkServers) > 0 {
		cfg.ServiceGroup.KV.ZKServers = *serviceGroupZkServers
	}
	if len(*cassandraHosts) > 0 {
		cfg.ServiceGroup.Cassandra.ContactPoints = *cassandraHosts
	}
	if *cassandraPort != 0 {
		cfg.ServiceGroup.Cassandra.Port = *cassandraPort
	}
	if *datacenter != "" {
		cfg.ServiceGroup.Cassandra.DataCenter = *datacenter
	}
	cfg.Normalize()
}

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	log.SetFormatter(
		&logging.LogFieldFormatter{
			Formatter: &log.JSONFormatter{},
			Fields: log.Fields{
				common.AppLogField: app.Name,
			},
		},
	)

	initialLevel := log.InfoLevel
	if *debug {
		initialLevel = log.DebugLevel
	}
	log.SetLevel(initialLevel)

	log.WithField("files", *cfgFiles).Info("Loading Scheduler config")
	var cfg config.Config
	if err := common_config.Parse(&cfg, *cfgFiles...); err != nil {
		log.WithError(err).Fatal("Cannot parse yaml config")
	}
	overrideConfig(&cfg)

	if *enableSentry {
		cfg.SentryConfig.Enabled = true
	}
	if err := logging.ConfigureSentry(&cfg.SentryConfig); err != nil {
		log.WithError(err).Error("Failed to configure sentry")
	}

	rootScope, scopeCloser, mux, err := metrics.InitMetricScope(
		&cfg.Metrics,
		common.NovaScheduler,
		metrics.TallyFlushInterval,
		nil,
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize metrics")
	}
	mux.HandleFunc(logging.LevelOverwrite, logging.LevelOverwriteHandler(initialLevel))

	driver, err := servicegroup.NewDriver(cfg.ServiceGroup)
	if err != nil {
		log.WithError(err).
			WithField("driver", cfg.ServiceGroup.Driver).
			Fatal("Failed to create service group driver")
	}
	if cd, ok := driver.(*servicegroup.CassandraDriver); ok {
		if err := cd.EnsureSchema(context.Background()); err != nil {
			log.WithError(err).Fatal("Failed to create service group schema")
		}
	}
	serviceGroup := servicegroup.NewAPI(driver, cfg.ServiceGroup, rootScope, nil)

	sched, err := scheduler.New(cfg.Scheduler.Config, serviceGroup, rootScope)
	if err != nil {
		log.WithError(err).
			WithField("driver", cfg.Scheduler.Driver).
			Fatal("Failed to create scheduler")
	}

	// Create both HTTP and GRPC inbounds
	inbounds, err := rpc.NewInbounds(
		cfg.Scheduler.HTTPPort,
		cfg.Scheduler.GRPCPort,
		mux,
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to create inbounds")
	}

	log.Debug("Creating new YARPC dispatcher")
	dispatcher := yarpc.NewDispatcher(yarpc.Config{
		Name:     common.NovaScheduler,
		Inbounds: inbounds,
		Metrics: yarpc.MetricsConfig{
			Tally: rootScope,
		},
	})
	schedsvc.InitServiceHandler(dispatcher, rootScope, sched, serviceGroup)

	log.Debug("Starting YARPC dispatcher")
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Unable to start dispatcher: %v", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		log.WithError(err).Fatal("Failed to get hostname")
	}

	leaderWorks := background.NewManager()
	err = leaderWorks.RegisterWorks(newReaperWork(
		serviceGroup,
		cfg.Scheduler.ComputeTopic,
		cfg.Scheduler.PeriodicTaskInterval,
	))
	if err != nil {
		log.WithError(err).Fatal("Failed to register leader works")
	}

	srv := newServer(fmt.Sprintf("%s:%d", hostname, cfg.Scheduler.HTTPPort), leaderWorks)
	candidate, err := leader.NewCandidate(
		cfg.Election,
		rootScope,
		common.SchedulerRole,
		srv,
	)
	if err != nil {
		log.WithError(err).Fatal("Unable to create leader candidate")
	}
	if err := candidate.Start(); err != nil {
		log.WithError(err).Fatal("Unable to start leader candidate")
	}

	log.Info("Initialize the Heartbeat process")
	works := background.NewManager()
	if err := works.RegisterWorks(health.NewHeartbeatWork(rootScope, cfg.Health, candidate)); err != nil {
		log.WithError(err).Fatal("Failed to register heartbeat")
	}
	works.Start()

	log.WithFields(log.Fields{
		"compute_topic":       cfg.Scheduler.ComputeTopic,
		"http_port":           cfg.Scheduler.HTTPPort,
		"grpc_port":           cfg.Scheduler.GRPCPort,
		"servicegroup_driver": cfg.ServiceGroup.Driver,
	}).Info("Scheduler started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	log.WithField("signal", <-sig).Info("Shutting down scheduler")

	works.Stop()
	err = multierr.Combine(
		candidate.Stop(),
		dispatcher.Stop(),
		driver.Close(),
		scopeCloser.Close(),
	)
	if err != nil {
		log.WithError(err).Error("Scheduler shut down with errors")
		os.Exit(1)
	}
}
