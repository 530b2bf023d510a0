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
	"os"

	"github.com/evalphobia/logrus_sentry"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	_clusterEnv = "CLUSTER"
)

// SentryConfig is sentry logging specific configuration.
type SentryConfig struct {
	Enabled bool `yaml:"enabled"`
	// DSN is the sentry DSN name.
	DSN string `yaml:"dsn"`
	// Tags are attached to every sentry event so they can be filtered.
	Tags map[string]string `yaml:"tags"`
	// MinLevel is the least severe level forwarded to sentry, warn by default.
	MinLevel string `yaml:"min_level"`
}

// sentryLevels returns every level at least as severe as min.
func sentryLevels(min log.Level) []log.Level {
	var levels []log.Level
	for _, l := range log.AllLevels {
		if l <= min {
			levels = append(levels, l)
		}
	}
	return levels
}

// ConfigureSentry adds a sentry hook to the standard logger. A nil or
// disabled config is a no-op.
func ConfigureSentry(cfg *SentryConfig) error {
	if cfg == nil || !cfg.Enabled {
		log.Debug("skip configuring sentry due to not enabled.")
		return nil
	}

	min := log.WarnLevel
	if cfg.MinLevel != "" {
		l, err := log.ParseLevel(cfg.MinLevel)
		if err != nil {
			return errors.Wrap(err, "invalid sentry min_level")
		}
		min = l
	}

	if cfg.Tags == nil {
		cfg.Tags = make(map[string]string)
	}
	if v := os.Getenv(_clusterEnv); v != "" {
		log.WithField("cluster_tag", v).Info("tag cluster in sentry event.")
		cfg.Tags[_clusterEnv] = v
	}

	hook, err := logrus_sentry.NewWithTagsSentryHook(cfg.DSN, cfg.Tags, sentryLevels(min))
	if err != nil {
		return errors.Wrap(err, "failed to create sentry hook")
	}

	log.AddHook(hook)
	log.WithField("min_level", min).Info("sentry hook added")
	return nil
}
