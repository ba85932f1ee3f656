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

// Package signaling maps process signals to server control operations:
// SIGHUP requests a configuration reload, SIGINT and SIGTERM request a
// graceful shutdown.
package signaling

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/server/instance"
	"github.com/trickstercache/trestle/pkg/server/reload"
)

// Wait blocks handling signals for the provided instance until a
// shutdown signal has been fully serviced
func Wait(si *instance.ServerInstance) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for {
		sig := <-sigs
		switch sig {
		case syscall.SIGHUP:
			logger.Info("sighup received, checking for configuration changes", nil)
			reload.RequestReload(si)
		case syscall.SIGINT, syscall.SIGTERM:
			logger.Warn("shutdown signal received, draining",
				logging.Pairs{"signal": sig.String()})
			ctx, cancel := context.WithTimeout(context.Background(),
				si.Config.Reload.DrainTimeout()+time.Second)
			si.Server.Controller().Shutdown(ctx)
			cancel()
			return
		}
	}
}
