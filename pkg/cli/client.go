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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"go.uber.org/yarpc"
	"go.uber.org/yarpc/api/transport"

	"github.com/wwjiang007/nova/pkg/common"
	"github.com/wwjiang007/nova/pkg/common/rpc"
	"github.com/wwjiang007/nova/pkg/schedsvc"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

var tabWriter = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

// schedulerService is the set of scheduler procedures used by the CLI.
type schedulerService interface {
	scheduler.Scheduler
	ListServices(ctx context.Context, topic string) ([]*servicegroup.ServiceStatus, error)
	SetDisabled(ctx context.Context, topic, host string, disabled bool, reason string) (*servicegroup.Service, error)
}

// Client is a JSON client of the scheduler.
type Client struct {
	// Debug prints full json responses
	Debug bool

	schedClient schedulerService
	dispatcher  *yarpc.Dispatcher
	ctx         context.Context
	cancelFunc  context.CancelFunc
	out         io.Writer
}

// New returns a Client for the scheduler at schedulerURL. Every call
// made through it shares a deadline of timeout.
func New(schedulerURL string, timeout time.Duration, debug bool) (*Client, error) {
	dispatcher := yarpc.NewDispatcher(yarpc.Config{
		Name: common.NovaCLI,
		Outbounds: yarpc.Outbounds{
			common.NovaScheduler: transport.Outbounds{
				Unary: rpc.NewHTTPOutbound(schedulerURL),
			},
		},
	})
	if err := dispatcher.Start(); err != nil {
		return nil, fmt.Errorf("Unable to start dispatcher: %v", err)
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeout)
	return &Client{
		Debug:       debug,
		schedClient: schedsvc.NewClient(dispatcher.ClientConfig(common.NovaScheduler)),
		dispatcher:  dispatcher,
		ctx:         ctx,
		cancelFunc:  cancelFunc,
		out:         tabWriter,
	}, nil
}

// Cleanup ensures the client's dispatcher is stopped.
func (c *Client) Cleanup() {
	defer c.cancelFunc()
	if c.dispatcher != nil {
		c.dispatcher.Stop()
	}
}

func (c *Client) flush() {
	if f, ok := c.out.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func (c *Client) printResponseJSON(response interface{}) {
	buffer, err := json.MarshalIndent(response, "", "  ")
	if err == nil {
		fmt.Fprintf(c.out, "%v\n", string(buffer))
	} else {
		fmt.Fprintf(c.out, "MarshalIndent err=%v\n", err)
	}
	c.flush()
}
