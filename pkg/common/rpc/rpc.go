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

package rpc

import (
	"fmt"
	"net"
	nethttp "net/http"

	"github.com/pkg/errors"
	"go.uber.org/yarpc/api/transport"
	"go.uber.org/yarpc/transport/grpc"
	"go.uber.org/yarpc/transport/http"

	"github.com/wwjiang007/nova/pkg/common"
)

const (
	// MaxRecvMsgSize is the largest acceptable RPC message size.
	MaxRecvMsgSize = 64 * 1024 * 1024 // 64MB
)

// NewTransport returns a new gRPC transport with the message size limits
// applied on both sides.
func NewTransport() *grpc.Transport {
	return grpc.NewTransport(
		grpc.ClientMaxRecvMsgSize(MaxRecvMsgSize),
		grpc.ServerMaxRecvMsgSize(MaxRecvMsgSize),
	)
}

// NewInbounds creates both HTTP and gRPC inbounds for the given ports. Non
// RPC requests on the HTTP port are served by mux.
func NewInbounds(
	httpPort int,
	grpcPort int,
	mux *nethttp.ServeMux) ([]transport.Inbound, error) {

	ht := http.NewTransport()
	gt := NewTransport()

	gl, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on gRPC port %d", grpcPort)
	}

	return []transport.Inbound{
		ht.NewInbound(
			fmt.Sprintf(":%d", httpPort),
			http.Mux(common.SchedulerEndpointPath, mux),
		),
		gt.NewInbound(gl),
	}, nil
}

// NewHTTPOutbound returns a unary outbound to the scheduler endpoint at
// the given base address, e.g. http://127.0.0.1:5300.
func NewHTTPOutbound(address string) transport.UnaryOutbound {
	return http.NewTransport().NewSingleOutbound(address + common.SchedulerEndpointPath)
}
