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

package logging

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// LevelOverwrite is the default endpoint for overwrite level handler.
	LevelOverwrite = "/logging-level"

	_level    = "level"
	_duration = "duration"
	_usage    = "usage: GET `/logging-level?level=[info|debug]&duration=<duration>`"
)

// levelOverride holds the level to fall back to once a temporary
// override expires. Only the most recent override owns the reset timer.
type levelOverride struct {
	sync.Mutex
	initial log.Level
	reset   *time.Timer
}

func (o *levelOverride) apply(level log.Level, duration time.Duration) {
	o.Lock()
	defer o.Unlock()

	if o.reset != nil {
		o.reset.Stop()
	}
	log.SetLevel(level)
	o.reset = time.AfterFunc(duration, func() {
		o.Lock()
		defer o.Unlock()
		log.WithField("initial_level", o.initial).
			Info("Resetting log level after timer")
		log.SetLevel(o.initial)
	})
}

func queryParams(names []string, r *http.Request) (map[string]string, error) {
	result := make(map[string]string, len(names))
	values := r.URL.Query()
	var missing []string
	for _, name := range names {
		v := values.Get(name)
		if v == "" {
			missing = append(missing, name)
			continue
		}
		result[name] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Required params not set: %s", strings.Join(missing, ","))
	}
	return result, nil
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintln(w, err.Error())
	fmt.Fprintln(w, _usage)
}

// LevelOverwriteHandler returns a handler which raises the logging level
// to info or debug for a bounded duration. A later call replaces the
// pending reset of an earlier one.
func LevelOverwriteHandler(initialLevel log.Level) func(http.ResponseWriter, *http.Request) {
	log.SetLevel(initialLevel)
	override := &levelOverride{initial: initialLevel}

	return func(w http.ResponseWriter, r *http.Request) {
		params, err := queryParams([]string{_level, _duration}, r)
		if err != nil {
			writeError(w, err)
			return
		}

		newLevel, err := log.ParseLevel(params[_level])
		if err != nil {
			writeError(w, err)
			return
		}
		if newLevel != log.InfoLevel && newLevel != log.DebugLevel {
			writeError(w, fmt.Errorf("New Level %s is not info or debug", params[_level]))
			return
		}

		duration, err := time.ParseDuration(params[_duration])
		if err != nil {
			writeError(w, err)
			return
		}

		log.WithFields(log.Fields{
			"new_level": newLevel,
			"duration":  duration,
		}).Info("Setting log level to new level")
		override.apply(newLevel, duration)

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Level changed to %s for the next %v.\n", params[_level], duration)
	}
}
