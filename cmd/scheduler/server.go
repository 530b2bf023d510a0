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
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wwjiang007/nova/pkg/common/background"
)

const _reaperWorkName = "servicegroup_reaper"

// reaper deletes the records of long dead services.
type reaper interface {
	ReapStale(ctx context.Context, topic string) (int, error)
}

func newReaperWork(r reaper, topic string, period time.Duration) background.Work {
	return background.Work{
		Name:   _reaperWorkName,
		Period: period,
		Func: func(ctx context.Context) {
			n, err := r.ReapStale(ctx, topic)
			if err != nil {
				log.WithError(err).
					WithField("topic", topic).
					Warn("Failed to reap stale services")
			}
			if n > 0 {
				log.WithField("topic", topic).
					WithField("reaped", n).
					Info("Reaped stale services")
			}
		},
	}
}

// server runs the leader only works of the scheduler while it leads.
type server struct {
	sync.Mutex

	id      string
	works   background.Manager
	leading bool
}

func newServer(id string, works background.Manager) *server {
	return &server{
		id:    id,
		works: works,
	}
}

// GainedLeadershipCallback starts the leader only works.
func (s *server) GainedLeadershipCallback() error {
	s.Lock()
	defer s.Unlock()

	log.WithField("id", s.id).Info("Gained scheduler leadership")
	if !s.leading {
		s.works.Start()
		s.leading = true
	}
	return nil
}

// LostLeadershipCallback stops the leader only works.
func (s *server) LostLeadershipCallback() error {
	s.Lock()
	defer s.Unlock()

	log.WithField("id", s.id).Info("Lost scheduler leadership")
	s.stopWorks()
	return nil
}

// ShutDownCallback stops the leader only works.
func (s *server) ShutDownCallback() error {
	s.Lock()
	defer s.Unlock()

	log.WithField("id", s.id).Info("Shutting down scheduler")
	s.stopWorks()
	return nil
}

func (s *server) stopWorks() {
	if s.leading {
		s.works.Stop()
		s.leading = false
	}
}

// GetID returns the id of this scheduler instance.
func (s *server) GetID() string {
	return s.id
}
