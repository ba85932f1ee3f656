/*
 * Copyright 2024 The Trestle Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package reload applies configuration changes to a running server,
// rate-limited and gated on the config file actually having changed.
package reload

import (
	"sync"
	"time"

	"github.com/trickstercache/trestle/pkg/config"
	te "github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/observability/metrics"
	"github.com/trickstercache/trestle/pkg/server/instance"
)

var mtx sync.Mutex
var lastReload time.Time

// RequestReload reloads the instance's configuration if the backing
// file has changed and the rate limit has elapsed. It returns true when
// a new configuration was applied.
func RequestReload(si *instance.ServerInstance) (bool, error) {
	if si == nil || si.Server == nil || si.Config == nil ||
		si.ConfigValidator == nil {
		return false, te.ErrInvalidOptions
	}
	mtx.Lock()
	defer mtx.Unlock()

	if rl := si.Config.Reload.RateLimit(); time.Since(lastReload) < rl {
		logger.Warn(config.ConfigNotReloadedText,
			logging.Pairs{"reason": "rate limited", "rateLimit": rl.String()})
		return false, nil
	}
	if !si.Config.IsStale() {
		logger.Warn(config.ConfigNotReloadedText,
			logging.Pairs{"reason": "config file unchanged"})
		return false, nil
	}

	logger.Warn("configuration reload starting now",
		logging.Pairs{"source": si.Config.Resources.Path})
	conf, err := si.ConfigValidator()
	if err != nil {
		markFailed(err)
		return false, err
	}
	if conf == nil || conf.Resources == nil {
		markFailed(te.ErrInvalidOptions)
		return false, te.ErrInvalidOptions
	}
	if err = si.Server.Controller().Reload(conf); err != nil {
		markFailed(err)
		return false, err
	}

	si.Config = conf
	lastReload = time.Now()
	metrics.LastReloadSuccessful.Set(1)
	metrics.LastReloadSuccessfulTimestamp.Set(float64(lastReload.Unix()))
	logger.Info(config.ConfigReloadedText, nil)
	return true, nil
}

func markFailed(err error) {
	metrics.LastReloadSuccessful.Set(0)
	logger.Warn(config.ConfigNotReloadedText,
		logging.Pairs{"error": err.Error()})
}
