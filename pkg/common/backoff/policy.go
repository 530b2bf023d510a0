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

package backoff

import (
	"time"
)

const (
	done time.Duration = -1
)

// Retrier is interface for managing backoff.
type Retrier interface {
	// NextBackOff returns the delay before the next attempt, or a negative
	// duration once the policy gives up.
	NextBackOff() time.Duration
}

// NewRetrier is used for creating a new instance of Retrier
func NewRetrier(policy RetryPolicy) Retrier {
	return &retrierImpl{
		policy:         policy,
		currentAttempt: 1,
	}
}

type retrierImpl struct {
	policy         RetryPolicy
	currentAttempt int
}

// NextBackOff returns the next delay interval.
func (r *retrierImpl) NextBackOff() time.Duration {
	nextInterval := r.policy.CalculateNextDelay(r.currentAttempt)

	r.currentAttempt++
	return nextInterval
}

// RetryPolicy is interface for defining retry policy.
type RetryPolicy interface {
	CalculateNextDelay(attempts int) time.Duration
}

// NewRetryPolicy returns a policy retrying at a fixed interval.
func NewRetryPolicy(maxAttempts int, retryInterval time.Duration) RetryPolicy {
	return NewExponentialRetryPolicy(maxAttempts, retryInterval, 1, retryInterval)
}

// NewExponentialRetryPolicy returns a policy whose delay starts at initial
// and is multiplied by multiplier after every attempt, capped at max.
func NewExponentialRetryPolicy(
	maxAttempts int,
	initial time.Duration,
	multiplier float64,
	max time.Duration) RetryPolicy {
	if multiplier < 1 {
		multiplier = 1
	}
	return &retryPolicy{
		maxAttempts: maxAttempts,
		initial:     initial,
		multiplier:  multiplier,
		max:         max,
	}
}

type retryPolicy struct {
	maxAttempts int
	initial     time.Duration
	multiplier  float64
	max         time.Duration
}

// CalculateNextDelay returns next delay.
func (p *retryPolicy) CalculateNextDelay(attempts int) time.Duration {
	if p.maxAttempts > 0 && attempts >= p.maxAttempts {
		return done
	}
	delay := float64(p.initial)
	for i := 1; i < attempts; i++ {
		delay *= p.multiplier
		if p.max > 0 && time.Duration(delay) >= p.max {
			return p.max
		}
	}
	return time.Duration(delay)
}
