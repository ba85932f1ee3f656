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

// Package instance ties a running Server to its configuration source
// for the reload and signaling packages.
package instance

import (
	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/server"
)

// ConfigValidator loads and validates a candidate configuration
type ConfigValidator func() (*config.Config, error)

// ServerInstance is the top-level handle for a served process
type ServerInstance struct {
	// Config is the currently applied configuration
	Config *config.Config
	// Server is the running connection engine
	Server *server.Server
	// ConfigValidator produces the next configuration on reload
	ConfigValidator ConfigValidator
}
