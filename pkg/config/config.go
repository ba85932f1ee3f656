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

// Package config provides trestle configuration abilities, including
// parsing and printing configuration files and environment variables, as
// well as default values and state
package config

import (
	"time"
)

// Config is the main configuration object
type Config struct {
	// Main is the primary MainConfig section
	Main *MainConfig `yaml:"main,omitempty"`
	// Frontend provides configurations about the server Front End
	Frontend *FrontendConfig `yaml:"frontend,omitempty"`
	// Static provides configurations for the static file fallback
	Static *StaticConfig `yaml:"static,omitempty"`
	// Encoding provides configurations for response content encoding
	Encoding *EncodingConfig `yaml:"encoding,omitempty"`
	// Logging provides configurations that affect logging behavior
	Logging *LoggingConfig `yaml:"logging,omitempty"`
	// Metrics provides configurations for collecting Metrics about the application
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
	// Reload provides configurations for in-process config reloading
	Reload *ReloadConfig `yaml:"reload,omitempty"`

	// Resources holds runtime resources used by the Config
	Resources *Resources `yaml:"-"`
}

// MainConfig is a collection of general configuration values
type MainConfig struct {
	// InstanceID represents a unique ID for the current instance, when multiple
	// instances run on the same host
	InstanceID int `yaml:"instance_id,omitempty"`
	// ServerName represents the server name conveyed in the Server response header;
	// defaults to the application name
	ServerName string `yaml:"server_name,omitempty"`
	// PingHandlerPath provides the path to register the Ping Handler for checking
	// that trestle is running
	PingHandlerPath string `yaml:"ping_handler_path,omitempty"`
	// ConfigHandlerPath provides the path to register the Config Handler for
	// outputting the running configuration
	ConfigHandlerPath string `yaml:"config_handler_path,omitempty"`
}

// FrontendConfig is a collection of configurations for the connection-handling
// front end of the server
type FrontendConfig struct {
	// ListenAddress is the address the server listens on
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is the port the server listens on
	ListenPort int `yaml:"listen_port,omitempty"`
	// ServeTLS indicates whether the listener is wrapped in TLS
	ServeTLS bool `yaml:"serve_tls,omitempty"`
	// TLSCertPath is the path to the full-chain certificate file
	TLSCertPath string `yaml:"tls_cert_path,omitempty"`
	// TLSKeyPath is the path to the private key file
	TLSKeyPath string `yaml:"tls_key_path,omitempty"`
	// ConnectionsLimit caps concurrently accepted connections (0 = unlimited)
	ConnectionsLimit int `yaml:"connections_limit,omitempty"`
	// ReadTimeoutMS is the per-request read deadline in milliseconds (0 = none)
	ReadTimeoutMS int `yaml:"read_timeout_ms,omitempty"`
	// WriteTimeoutMS is the per-response write deadline in milliseconds (0 = none)
	WriteTimeoutMS int `yaml:"write_timeout_ms,omitempty"`
	// ReadLimitBytes caps the total size of a framed request in bytes (0 = unbounded)
	ReadLimitBytes int64 `yaml:"read_limit_bytes,omitempty"`
	// PoolSize is the number of connection workers
	PoolSize int `yaml:"pool_size,omitempty"`
	// QueueDepth is the capacity of the accepted-connection work queue
	QueueDepth int `yaml:"queue_depth,omitempty"`
	// DefaultHeaders are merged into every response unless already set by the handler
	DefaultHeaders map[string]string `yaml:"default_headers,omitempty"`
}

// StaticConfig is a collection of configurations for the static file resolver
type StaticConfig struct {
	// Root is the directory static file requests are resolved against;
	// empty disables the static fallback
	Root string `yaml:"root,omitempty"`
	// AllowExtensions, when non-empty, limits served files to these extensions
	AllowExtensions []string `yaml:"allow_extensions,omitempty"`
	// DenyExtensions lists extensions that are never served
	DenyExtensions []string `yaml:"deny_extensions,omitempty"`
}

// EncodingConfig is a collection of configurations for response content encoding
type EncodingConfig struct {
	// Enabled turns Accept-Encoding negotiation on
	Enabled bool `yaml:"enabled,omitempty"`
	// MinBytes is the smallest response body eligible for encoding
	MinBytes int `yaml:"min_bytes,omitempty"`
}

// LoggingConfig is a collection of logging configurations
type LoggingConfig struct {
	// LogFile provides the filepath to the instance's logfile; empty logs to console
	LogFile string `yaml:"log_file,omitempty"`
	// LogLevel provides the most verbose level of messages to log
	LogLevel string `yaml:"log_level,omitempty"`
}

// MetricsConfig is a collection of configurations for the metrics listener
type MetricsConfig struct {
	// ListenAddress is the address the metrics endpoint listens on
	ListenAddress string `yaml:"listen_address,omitempty"`
	// ListenPort is the port the metrics endpoint listens on (0 = disabled)
	ListenPort int `yaml:"listen_port,omitempty"`
}

// ReloadConfig is a collection of configurations for in-process reloading
type ReloadConfig struct {
	// RateLimitMS limits the frequency of successful reloads
	RateLimitMS int `yaml:"rate_limit_ms,omitempty"`
	// DrainTimeoutMS is how long the server waits for in-flight work on shutdown
	DrainTimeoutMS int `yaml:"drain_timeout_ms,omitempty"`
}

// Resources holds runtime resources used by the Config
type Resources struct {
	// Path is the filepath the Config was loaded from, empty when not file-backed
	Path string
	// ModTime is the file modification time observed at load
	ModTime time.Time
	// LoadTime is when the Config was loaded
	LoadTime time.Time
}

// NewConfig returns a Config with default values
func NewConfig() *Config {
	return &Config{
		Main: &MainConfig{
			PingHandlerPath:   DefaultPingHandlerPath,
			ConfigHandlerPath: DefaultConfigHandlerPath,
		},
		Frontend: &FrontendConfig{
			ListenAddress: DefaultListenAddress,
			ListenPort:    DefaultListenPort,
			PoolSize:      DefaultPoolSize,
			QueueDepth:    DefaultQueueDepth,
		},
		Static:   &StaticConfig{},
		Encoding: &EncodingConfig{Enabled: true, MinBytes: DefaultEncodingMinBytes},
		Logging: &LoggingConfig{
			LogLevel: DefaultLogLevel,
		},
		Metrics: &MetricsConfig{
			ListenAddress: DefaultListenAddress,
		},
		Reload: &ReloadConfig{
			RateLimitMS:    DefaultReloadRateLimitMS,
			DrainTimeoutMS: DefaultDrainTimeoutMS,
		},
		Resources: &Resources{},
	}
}

// ReadTimeout returns the configured read deadline as a time.Duration
func (fc *FrontendConfig) ReadTimeout() time.Duration {
	return time.Duration(fc.ReadTimeoutMS) * time.Millisecond
}

// WriteTimeout returns the configured write deadline as a time.Duration
func (fc *FrontendConfig) WriteTimeout() time.Duration {
	return time.Duration(fc.WriteTimeoutMS) * time.Millisecond
}

// DrainTimeout returns the configured drain timeout as a time.Duration
func (rc *ReloadConfig) DrainTimeout() time.Duration {
	return time.Duration(rc.DrainTimeoutMS) * time.Millisecond
}

// RateLimit returns the configured reload rate limit as a time.Duration
func (rc *ReloadConfig) RateLimit() time.Duration {
	return time.Duration(rc.RateLimitMS) * time.Millisecond
}

// Equal returns true if all exposed fields of the FrontendConfig are identical
func (fc *FrontendConfig) Equal(fc2 *FrontendConfig) bool {
	if fc2 == nil {
		return false
	}
	if fc.ListenAddress != fc2.ListenAddress ||
		fc.ListenPort != fc2.ListenPort ||
		fc.ServeTLS != fc2.ServeTLS ||
		fc.TLSCertPath != fc2.TLSCertPath ||
		fc.TLSKeyPath != fc2.TLSKeyPath ||
		fc.ConnectionsLimit != fc2.ConnectionsLimit ||
		fc.ReadTimeoutMS != fc2.ReadTimeoutMS ||
		fc.WriteTimeoutMS != fc2.WriteTimeoutMS ||
		fc.ReadLimitBytes != fc2.ReadLimitBytes ||
		fc.PoolSize != fc2.PoolSize ||
		fc.QueueDepth != fc2.QueueDepth ||
		len(fc.DefaultHeaders) != len(fc2.DefaultHeaders) {
		return false
	}
	for k, v := range fc.DefaultHeaders {
		if v2, ok := fc2.DefaultHeaders[k]; !ok || v != v2 {
			return false
		}
	}
	return true
}

// Clone returns an exact copy of the subject Config
func (c *Config) Clone() *Config {
	nc := NewConfig()

	*nc.Main = *c.Main
	*nc.Frontend = *c.Frontend
	*nc.Static = *c.Static
	*nc.Encoding = *c.Encoding
	*nc.Logging = *c.Logging
	*nc.Metrics = *c.Metrics
	*nc.Reload = *c.Reload
	*nc.Resources = *c.Resources

	if c.Frontend.DefaultHeaders != nil {
		nc.Frontend.DefaultHeaders = make(map[string]string, len(c.Frontend.DefaultHeaders))
		for k, v := range c.Frontend.DefaultHeaders {
			nc.Frontend.DefaultHeaders[k] = v
		}
	}
	nc.Static.AllowExtensions = append([]string(nil), c.Static.AllowExtensions...)
	nc.Static.DenyExtensions = append([]string(nil), c.Static.DenyExtensions...)

	return nc
}
