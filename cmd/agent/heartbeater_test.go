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
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/wwjiang007/nova/pkg/servicegroup/mocks"
)

func TestTimeoutHeartbeater(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockHeartbeater(ctrl)
	h := &timeoutHeartbeater{client: client, timeout: time.Minute}

	hasDeadline := func(ctx context.Context, host, topic, binary string) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}
	client.EXPECT().Join(gomock.Any(), "h1", "compute", "nova-compute").DoAndReturn(hasDeadline)
	client.EXPECT().Heartbeat(gomock.Any(), "h1", "compute", "nova-compute").DoAndReturn(hasDeadline)

	assert.NoError(t, h.Join(context.Background(), "h1", "compute", "nova-compute"))
	assert.NoError(t, h.Heartbeat(context.Background(), "h1", "compute", "nova-compute"))
}
