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

package schedsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
	"github.com/uber-go/tally"
	"go.uber.org/yarpc"
	"go.uber.org/yarpc/yarpcerrors"

	"github.com/wwjiang007/nova/pkg/auth"
	"github.com/wwjiang007/nova/pkg/scheduler"
	"github.com/wwjiang007/nova/pkg/scheduler/mocks"
	"github.com/wwjiang007/nova/pkg/servicegroup"
)

var _ scheduler.Scheduler = (*Client)(nil)
var _ servicegroup.Heartbeater = (*Client)(nil)

// loopback serves calls with a Handler, passing bodies through JSON as
// the wire would.
type loopback struct {
	handler *Handler
}

func (l *loopback) Call(
	ctx context.Context,
	procedure string,
	reqBody interface{},
	resBodyOut interface{},
	opts ...yarpc.CallOption) error {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	var resp interface{}
	switch procedure {
	case SelectDestinationsProcedure:
		var req SelectDestinationsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		resp, err = l.handler.SelectDestinations(context.Background(), &req)
	case JoinProcedure:
		var req HeartbeatRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		resp, err = l.handler.Join(context.Background(), &req)
	case HeartbeatProcedure:
		var req HeartbeatRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		resp, err = l.handler.Heartbeat(context.Background(), &req)
	case ListServicesProcedure:
		var req ListServicesRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		resp, err = l.handler.ListServices(context.Background(), &req)
	case UpdateServiceProcedure:
		var req UpdateServiceRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return err
		}
		resp, err = l.handler.UpdateService(context.Background(), &req)
	default:
		return yarpcerrors.UnimplementedErrorf("unknown procedure %s", procedure)
	}
	if err != nil {
		if !yarpcerrors.IsStatus(err) {
			return yarpcerrors.UnknownErrorf("%s", err.Error())
		}
		return err
	}

	raw, err = json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, resBodyOut)
}

type ClientTestSuite struct {
	suite.Suite

	mockCtrl  *gomock.Controller
	scheduler *mocks.MockScheduler
	client    *Client
}

func (suite *ClientTestSuite) SetupTest() {
	suite.mockCtrl = gomock.NewController(suite.T())
	suite.scheduler = mocks.NewMockScheduler(suite.mockCtrl)
	services := servicegroup.NewAPI(
		servicegroup.NewMemoryDriver(),
		servicegroup.Config{ServiceDownTime: time.Minute},
		tally.NoopScope,
		nil,
	)
	suite.client = &Client{
		client: &loopback{handler: NewHandler(tally.NoopScope, suite.scheduler, services)},
	}
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.mockCtrl.Finish()
}

func TestClient(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) TestSelectDestinationsSendsAuthContext() {
	ctx := auth.NewContext(context.Background(), &auth.Context{
		UserID:    "user",
		ProjectID: "project",
		Roles:     []string{"member"},
	})
	suite.scheduler.EXPECT().
		SelectDestinations(gomock.Any(), &scheduler.RequestSpec{InstanceCount: 1}).
		DoAndReturn(func(ctx context.Context, spec *scheduler.RequestSpec) ([]scheduler.Destination, error) {
			c := auth.FromContext(ctx)
			suite.Equal("user", c.UserID)
			suite.Equal("project", c.ProjectID)
			suite.Equal([]string{"member"}, c.Roles)
			suite.False(c.IsAdmin)
			return []scheduler.Destination{{Host: "h1"}}, nil
		})

	dests, err := suite.client.SelectDestinations(ctx, &scheduler.RequestSpec{InstanceCount: 1})
	suite.NoError(err)
	suite.Equal([]scheduler.Destination{{Host: "h1"}}, dests)
}

func (suite *ClientTestSuite) TestSelectDestinationsNoValidHost() {
	suite.scheduler.EXPECT().
		SelectDestinations(gomock.Any(), gomock.Any()).
		Return(nil, &scheduler.NoValidHostError{Reason: scheduler.ReasonNoHostsUp})

	dests, err := suite.client.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 1},
	)
	suite.Nil(dests)
	suite.True(scheduler.IsNoValidHost(err))
	suite.Equal(&scheduler.NoValidHostError{Reason: scheduler.ReasonNoHostsUp}, err)
}

func (suite *ClientTestSuite) TestSelectDestinationsOtherError() {
	suite.scheduler.EXPECT().
		SelectDestinations(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("provider down"))

	_, err := suite.client.SelectDestinations(
		context.Background(),
		&scheduler.RequestSpec{InstanceCount: 1},
	)
	suite.Error(err)
	suite.False(scheduler.IsNoValidHost(err))
}

func (suite *ClientTestSuite) TestServiceGroup() {
	ctx := context.Background()

	suite.NoError(suite.client.Join(ctx, "h1", "compute", "nova-compute"))
	suite.NoError(suite.client.Heartbeat(ctx, "h1", "compute", "nova-compute"))

	svc, err := suite.client.SetDisabled(ctx, "compute", "h1", true, "maintenance")
	suite.NoError(err)
	suite.True(svc.Disabled)

	services, err := suite.client.ListServices(ctx, "compute")
	suite.NoError(err)
	suite.Len(services, 1)
	suite.Equal("h1", services[0].Host)
	suite.True(services[0].Up)

	_, err = suite.client.SetDisabled(ctx, "compute", "missing", true, "")
	suite.Equal(servicegroup.ErrServiceNotFound, err)
}
