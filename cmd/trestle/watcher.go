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

package main

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/server/instance"
	"github.com/trickstercache/trestle/pkg/server/reload"
)

// debounce interval for editors that write config files in several ops
const watchSettleTime = 500 * time.Millisecond

// watchConfigFile watches the directory containing path and requests a
// config reload when the file is written or replaced. The parent directory
// is watched rather than the file itself so atomic rename-into-place saves
// are observed.
func watchConfigFile(path string, si *instance.ServerInstance) {

	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Warn("config watch unavailable", logging.Pairs{
			"path":   path,
			"detail": err.Error(),
		})
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch unavailable", logging.Pairs{
			"path":   absPath,
			"detail": err.Error(),
		})
		return
	}
	defer w.Close()

	if err = w.Add(filepath.Dir(absPath)); err != nil {
		logger.Warn("config watch unavailable", logging.Pairs{
			"path":   absPath,
			"detail": err.Error(),
		})
		return
	}

	logger.Info("watching config file for changes", logging.Pairs{"path": absPath})

	var settle *time.Timer
	settleCh := make(chan time.Time)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != absPath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if settle == nil {
				settle = time.AfterFunc(watchSettleTime, func() {
					settleCh <- time.Now()
				})
			} else {
				settle.Reset(watchSettleTime)
			}
		case <-settleCh:
			settle = nil
			if _, err := reload.RequestReload(si); err != nil {
				logger.Warn("config file change not applied", logging.Pairs{
					"path":   absPath,
					"detail": err.Error(),
				})
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("config watch error", logging.Pairs{"detail": err.Error()})
		}
	}
}
