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
	"time"

	"github.com/wwjiang007/nova/pkg/servicegroup"
)

// timeoutHeartbeater bounds every report with a timeout.
type timeoutHeartbeater struct {
	client  servicegroup.Heartbeater
	timeout time.Duration
}

func (h *timeoutHeartbeater) Join(ctx context.Context, host, topic, binary string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.client.Join(ctx, host, topic, binary)
}

func (h *timeoutHeartbeater) Heartbeat(ctx context.Context, host, topic, binary string) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.client.Heartbeat(ctx, host, topic, binary)
}
