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
	"math/rand"
	"sync"
)

// Rand is the source of the uniform draws made by the chance scheduler.
type Rand interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// globalRand draws from the process wide math/rand source.
type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

type lockedRand struct {
	sync.Mutex
	r *rand.Rand
}

// NewSeededRand returns a Rand with a fixed seed, safe for concurrent use.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.Lock()
	defer l.Unlock()
	return l.r.Intn(n)
}
