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
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	pc "github.com/wwjiang007/nova/pkg/cli"
	"github.com/wwjiang007/nova/pkg/common"
)

var (
	// Version of the nova cli. will be set by Makefile
	version string

	app = kingpin.New("nova", "CLI for interacting with the nova scheduler")

	// Global CLI flags
	jsonFormat = app.Flag(
		"json",
		"print full json responses").
		Short('j').
		Default("false").
		Bool()

	schedulerURL = app.Flag(
		"scheduler-url",
		"HTTP address of the scheduler (set $SCHEDULER_URL to override)").
		Short('s').
		Default("http://localhost:5300").
		Envar("SCHEDULER_URL").
		String()

	timeout = app.Flag(
		"timeout",
		"default RPC timeout (set $TIMEOUT to override)").
		Default("20s").
		Short('t').
		Envar("TIMEOUT").
		Duration()

	selectCmd = app.Command("select", "select destination hosts for instances")
	selectCount = selectCmd.Flag(
		"count", "number of instances").
		Short('n').
		Default("1").
		Int()
	selectIgnore = selectCmd.Flag(
		"ignore", "host to exclude, may be repeated").
		Short('i').
		Strings()
	selectProject = selectCmd.Flag(
		"project", "project the instances belong to").
		String()

	service = app.Command("service", "manage compute services")

	serviceList      = service.Command("list", "list services of a topic")
	serviceListTopic = serviceList.Flag(
		"topic", "service topic").
		Default(common.ComputeTopic).
		String()

	serviceDisable      = service.Command("disable", "stop scheduling onto a host")
	serviceDisableTopic = serviceDisable.Flag(
		"topic", "service topic").
		Default(common.ComputeTopic).
		String()
	serviceDisableReason = serviceDisable.Flag(
		"reason", "why the host is disabled").
		String()
	serviceDisableHost = serviceDisable.Arg(
		"host", "host name").
		Required().
		String()

	serviceEnable      = service.Command("enable", "resume scheduling onto a host")
	serviceEnableTopic = serviceEnable.Flag(
		"topic", "service topic").
		Default(common.ComputeTopic).
		String()
	serviceEnableHost = serviceEnable.Arg(
		"host", "host name").
		Required().
		String()
)

func main() {
	app.Version(version)
	app.HelpFlag.Short('h')
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	client, err := pc.New(*schedulerURL, *timeout, *jsonFormat)
	if err != nil {
		app.FatalIfError(err, "")
	}
	defer client.Cleanup()

	switch cmd {
	case selectCmd.FullCommand():
		err = client.SelectDestinationsAction(*selectCount, *selectIgnore, *selectProject)
	case serviceList.FullCommand():
		err = client.ServiceListAction(*serviceListTopic)
	case serviceDisable.FullCommand():
		err = client.ServiceDisableAction(*serviceDisableTopic, *serviceDisableHost, *serviceDisableReason)
	case serviceEnable.FullCommand():
		err = client.ServiceEnableAction(*serviceEnableTopic, *serviceEnableHost)
	default:
		app.Fatalf("Unknown command %s", cmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		client.Cleanup()
		os.Exit(1)
	}
}
