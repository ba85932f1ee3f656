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
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/trickstercache/trestle/pkg/errors"
)

var validLogLevels = []string{"debug", "trace", "info", "warn", "error", "none"}

// Validate checks the Config for inconsistent or unusable values, returning
// an error describing the first problem found
func (c *Config) Validate() error {
	if c.Main == nil || c.Frontend == nil || c.Static == nil || c.Logging == nil ||
		c.Metrics == nil || c.Reload == nil || c.Encoding == nil {
		return errors.ErrInvalidOptions
	}
	fc := c.Frontend
	if fc.ListenPort < 0 || fc.ListenPort > 65535 {
		return fmt.Errorf("%w: invalid listen_port %d", errors.ErrInvalidOptions, fc.ListenPort)
	}
	if fc.PoolSize < 1 {
		return fmt.Errorf("%w: pool_size must be >= 1", errors.ErrInvalidOptions)
	}
	if fc.QueueDepth < 1 {
		return fmt.Errorf("%w: queue_depth must be >= 1", errors.ErrInvalidOptions)
	}
	if fc.ReadLimitBytes < 0 {
		return fmt.Errorf("%w: read_limit_bytes must be >= 0", errors.ErrInvalidOptions)
	}
	if fc.ReadTimeoutMS < 0 || fc.WriteTimeoutMS < 0 {
		return fmt.Errorf("%w: timeouts must be >= 0", errors.ErrInvalidOptions)
	}
	if fc.ServeTLS && (fc.TLSCertPath == "" || fc.TLSKeyPath == "") {
		return fmt.Errorf("%w: serve_tls requires tls_cert_path and tls_key_path",
			errors.ErrInvalidOptions)
	}
	if c.Logging.LogLevel != "" && !slices.Contains(validLogLevels, c.Logging.LogLevel) {
		return fmt.Errorf("%w: unknown log_level %s", errors.ErrInvalidOptions,
			c.Logging.LogLevel)
	}
	if c.Metrics.ListenPort < 0 || c.Metrics.ListenPort > 65535 {
		return fmt.Errorf("%w: invalid metrics listen_port %d", errors.ErrInvalidOptions,
			c.Metrics.ListenPort)
	}
	if c.Reload.RateLimitMS < 0 || c.Reload.DrainTimeoutMS < 0 {
		return fmt.Errorf("%w: reload intervals must be >= 0", errors.ErrInvalidOptions)
	}
	if c.Encoding.MinBytes < 0 {
		return fmt.Errorf("%w: encoding min_bytes must be >= 0", errors.ErrInvalidOptions)
	}
	return nil
}
