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

	"github.com/pborman/uuid"

	"github.com/wwjiang007/nova/pkg/scheduler"
)

const (
	destinationsFormatHeader = "Instance\tHost\n"
	destinationsFormatBody   = "%d\t%s\n"
)

// SelectDestinationsAction selects a host for each of count instances,
// never choosing one of ignoreHosts.
func (c *Client) SelectDestinationsAction(count int, ignoreHosts []string, project string) error {
	spec := &scheduler.RequestSpec{
		InstanceCount: count,
		IgnoreHosts:   ignoreHosts,
		InstanceUUID:  uuid.New(),
		ProjectID:     project,
	}
	dests, err := c.schedClient.SelectDestinations(c.ctx, spec)
	if err != nil {
		if scheduler.IsNoValidHost(err) {
			return fmt.Errorf("could not find a host: %v", err)
		}
		return err
	}

	if c.Debug {
		c.printResponseJSON(dests)
		return nil
	}
	fmt.Fprintf(c.out, "Request: %s\n", spec.InstanceUUID)
	fmt.Fprint(c.out, destinationsFormatHeader)
	for i, d := range dests {
		fmt.Fprintf(c.out, destinationsFormatBody, i, d.Host)
	}
	c.flush()
	return nil
}
