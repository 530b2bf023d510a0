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
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/wwjiang007/nova/pkg/common"
	"github.com/wwjiang007/nova/pkg/common/logging"
	"github.com/wwjiang007/nova/pkg/common/rpc"
	"github.com/wwjiang007/nova/pkg/schedsvc"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

var (
	version string
	app     = kingpin.New(common.NovaAgent, "Nova host agent reporting liveness to the scheduler")

	debug = app.Flag(
		"debug", "enable debug logging").
		Short('d').
		Default("false").
		Envar("ENABLE_DEBUG_LOGGING").
		Bool()

	schedulerURL = app.Flag(
		"scheduler-url",
		"HTTP address of the scheduler (set $SCHEDULER_URL to override)").
		Short('s').
		Default("http://localhost:5300").
		Envar("SCHEDULER_URL").
		String()

	host = app.Flag(
		"host", "host name to report, defaults to the machine hostname").
		Envar("AGENT_HOST").
		String()

	topic = app.Flag(
		"topic", "service topic to report on").
		Default(common.ComputeTopic).
		Envar("AGENT_TOPIC").
		String()

	binary = app.Flag(
		"binary", "name of the reported binary").
		Default(common.ComputeBinary).
		Envar("AGENT_BINARY").
		String()

	reportInterval = app.Flag(
		"report-interval", "interval between heartbeats").
		Default("10s").
		Envar("REPORT_INTERVAL").
		Duration()

	timeout = app.Flag(
		"timeout", "RPC timeout").
		Default("5s").
		Envar("TIMEOUT").
		Duration()
)

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
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if *host == "" {
		hostname, err := os.Hostname()
		if err != nil {
			log.WithError(err).Fatal("Failed to get hostname")
		}
		*host = hostname
	}

	dispatcher := yarpc.NewDispatcher(yarpc.Config{
		Name: common.NovaAgent,
		Outbounds: yarpc.Outbounds{
			common.NovaScheduler: transport.Outbounds{
				Unary: rpc.NewHTTPOutbound(*schedulerURL),
			},
		},
	})
	if err := dispatcher.Start(); err != nil {
		log.Fatalf("Unable to start dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	client := schedsvc.NewClient(dispatcher.ClientConfig(common.NovaScheduler))
	reporter, err := servicegroup.NewReporter(
		&timeoutHeartbeater{client: client, timeout: *timeout},
		*host,
		*topic,
		*binary,
		*reportInterval,
		tally.NoopScope,
	)
	if err != nil {
		log.WithError(err).Fatal("Failed to create reporter")
	}

	log.WithFields(log.Fields{
		"host":          *host,
		"topic":         *topic,
		"scheduler_url": *schedulerURL,
		"interval":      *reportInterval,
	}).Info("Starting agent")
	reporter.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	log.WithField("signal", <-sig).Info("Stopping agent")
	reporter.Stop()
}
