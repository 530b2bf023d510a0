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

package background

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var (
	errEmptyName     = errors.New("background work name cannot be empty")
	errDuplicateName = errors.New("duplicate background work name")
	errBadPeriod     = errors.New("background work period must be positive")
)

// Work refers to a piece of background work which needs to happen
// periodically. Func receives a context which is cancelled on Stop.
type Work struct {
	Name         string
	Func         func(ctx context.Context)
	Period       time.Duration
	InitialDelay time.Duration
}

// Manager allows multiple background Works to be registered and
// started/stopped together.
type Manager interface {
	// Start starts all registered background works.
	Start()
	// Stop stops all registered background works and waits for them to
	// return.
	Stop()
	// RegisterWorks registers background works against the Manager.
	RegisterWorks(works ...Work) error
}

type manager struct {
	sync.Mutex
	runners map[string]*runner
}

// NewManager creates a new instance of Manager.
func NewManager() Manager {
	return &manager{
		runners: make(map[string]*runner),
	}
}

// RegisterWorks registers background works against the Manager.
func (m *manager) RegisterWorks(works ...Work) error {
	m.Lock()
	defer m.Unlock()

	for _, work := range works {
		if work.Name == "" {
			return errEmptyName
		}
		if work.Period <= 0 {
			return errBadPeriod
		}
		if _, ok := m.runners[work.Name]; ok {
			return errDuplicateName
		}
		m.runners[work.Name] = &runner{work: work}
	}
	return nil
}

// Start all registered works.
func (m *manager) Start() {
	m.Lock()
	defer m.Unlock()
	for _, r := range m.runners {
		r.start()
	}
}

// Stop all registered works.
func (m *manager) Stop() {
	m.Lock()
	defer m.Unlock()
	for _, r := range m.runners {
		r.stop()
	}
}

type runner struct {
	sync.Mutex

	work    Work
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func (r *runner) start() {
	r.Lock()
	defer r.Unlock()

	if r.running.Swap(true) {
		log.WithField("name", r.work.Name).
			Info("Background work is already running, no-op.")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	log.WithField("name", r.work.Name).
		WithField("period", r.work.Period).
		Info("Starting background work.")

	go r.run(ctx, r.done)
}

func (r *runner) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if r.work.InitialDelay > 0 {
		initial := time.NewTimer(r.work.InitialDelay)
		select {
		case <-ctx.Done():
			initial.Stop()
			log.WithField("name", r.work.Name).
				Info("Background work stopped before first run.")
			return
		case <-initial.C:
		}
	}

	ticker := time.NewTicker(r.work.Period)
	defer ticker.Stop()
	for {
		r.work.Func(ctx)

		select {
		case <-ctx.Done():
			log.WithField("name", r.work.Name).Info("Background work stopped.")
			return
		case t := <-ticker.C:
			log.WithField("tick", t).
				WithField("name", r.work.Name).
				Debug("Background work triggered.")
		}
	}
}

func (r *runner) stop() {
	r.Lock()
	defer r.Unlock()

	if !r.running.Load() {
		log.WithField("name", r.work.Name).
			Warn("Background work is not running, no-op.")
		return
	}

	r.cancel()
	<-r.done
	r.running.Store(false)
	log.WithField("name", r.work.Name).Info("Background work stop confirmed.")
}
