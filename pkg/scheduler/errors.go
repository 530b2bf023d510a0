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

package scheduler

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reasons carried by NoValidHostError.
const (
	ReasonNoHostsUp       = "no hosts are up, is the appropriate service running?"
	ReasonAllHostsIgnored = "could not find another compute host, all available hosts are ignored"
	ReasonNotEnoughHosts  = "there are not enough hosts available"
)

// ErrInvalidRequest is the cause of errors returned for malformed
// request specs.
var ErrInvalidRequest = errors.New("invalid request spec")

// NoValidHostError is returned when no host can be found for one of the
// instances of a request.
type NoValidHostError struct {
	Reason string
}

func (e *NoValidHostError) Error() string {
	return fmt.Sprintf("no valid host was found: %s", e.Reason)
}

// IsNoValidHost returns whether the cause of err is a NoValidHostError.
func IsNoValidHost(err error) bool {
	_, ok := errors.Cause(err).(*NoValidHostError)
	return ok
}

// IsInvalidRequest returns whether the cause of err is ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return errors.Cause(err) == ErrInvalidRequest
}
