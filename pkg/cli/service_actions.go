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
	"fmt"
	"time"
)

const (
	servicesFormatHeader = "Host\tBinary\tState\tStatus\tUpdated At\tDisabled Reason\n"
	servicesFormatBody   = "%s\t%s\t%s\t%s\t%s\t%s\n"
)

// ServiceListAction lists the services of a topic.
func (c *Client) ServiceListAction(topic string) error {
	services, err := c.schedClient.ListServices(c.ctx, topic)
	if err != nil {
		return err
	}
	if c.Debug {
		c.printResponseJSON(services)
		return nil
	}
	if len(services) == 0 {
		fmt.Fprintf(c.out, "No services found for topic %s\n", topic)
		c.flush()
		return nil
	}

	fmt.Fprint(c.out, servicesFormatHeader)
	for _, svc := range services {
		state := "down"
		if svc.Up {
			state = "up"
		}
		status := "enabled"
		if svc.Disabled {
			status = "disabled"
		}
		fmt.Fprintf(c.out, servicesFormatBody,
			svc.Host,
			svc.Binary,
			state,
			status,
			svc.UpdatedAt.Format(time.RFC3339),
			svc.DisabledReason,
		)
	}
	c.flush()
	return nil
}

// ServiceDisableAction stops scheduling onto a host.
func (c *Client) ServiceDisableAction(topic, host, reason string) error {
	if host == "" {
		return fmt.Errorf("Missing hostname")
	}
	svc, err := c.schedClient.SetDisabled(c.ctx, topic, host, true, reason)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Service disabled: %s/%s\n", svc.Topic, svc.Host)
	c.flush()
	return nil
}

// ServiceEnableAction resumes scheduling onto a host.
func (c *Client) ServiceEnableAction(topic, host string) error {
	if host == "" {
		return fmt.Errorf("Missing hostname")
	}
	svc, err := c.schedClient.SetDisabled(c.ctx, topic, host, false, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Service enabled: %s/%s\n", svc.Topic, svc.Host)
	c.flush()
	return nil
}
