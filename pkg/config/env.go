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

package config

import (
	"os"
	"strconv"
)

const (
	evListenAddress = "TRESTLE_LISTEN_ADDRESS"
	evListenPort    = "TRESTLE_LISTEN_PORT"
	evLogLevel      = "TRESTLE_LOG_LEVEL"
	evLogFile       = "TRESTLE_LOG_FILE"
	evStaticRoot    = "TRESTLE_STATIC_ROOT"
)

func (c *Config) loadEnvVars() {
	if v := os.Getenv(evListenAddress); v != "" {
		c.Frontend.ListenAddress = v
	}
	if v := os.Getenv(evListenPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Frontend.ListenPort = p
		}
	}
	if v := os.Getenv(evLogLevel); v != "" {
		c.Logging.LogLevel = v
	}
	if v := os.Getenv(evLogFile); v != "" {
		c.Logging.LogFile = v
	}
	if v := os.Getenv(evStaticRoot); v != "" {
		c.Static.Root = v
	}
}
