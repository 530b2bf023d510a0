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
	"context"
	"time"
)

// Retry calls f until it succeeds, the policy is exhausted or ctx is done.
// It returns the last error from f, or the context error if cancelled while
// waiting.
func Retry(ctx context.Context, f func() error, p RetryPolicy) error {
	r := NewRetrier(p)
	for {
		err := f()
		if err == nil {
			return nil
		}

		backoff := r.NextBackOff()
		if backoff == done {
			return err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
