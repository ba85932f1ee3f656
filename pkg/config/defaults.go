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

const (
	// DefaultListenAddress is the default trestle listen address
	DefaultListenAddress = ""
	// DefaultListenPort is the default trestle listen port
	DefaultListenPort = 8480
	// DefaultMetricsListenPort is the default metrics listen port
	DefaultMetricsListenPort = 8481

	// DefaultPoolSize is the default number of connection workers
	DefaultPoolSize = 4
	// DefaultQueueDepth is the default capacity of the connection work queue
	DefaultQueueDepth = 128

	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	// DefaultEncodingMinBytes is the smallest response body eligible for
	// content encoding by default
	DefaultEncodingMinBytes = 512

	// DefaultReloadRateLimitMS is the default minimum interval between
	// successful configuration reloads
	DefaultReloadRateLimitMS = 3000
	// DefaultDrainTimeoutMS is the default time allowed for in-flight
	// connections to complete during shutdown
	DefaultDrainTimeoutMS = 30000

	// DefaultPingHandlerPath is the default path of the Ping Handler
	DefaultPingHandlerPath = "/trestle/ping"
	// DefaultConfigHandlerPath is the default path of the Config Handler
	DefaultConfigHandlerPath = "/trestle/config"
)
