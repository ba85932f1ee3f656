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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/trickstercache/trestle/pkg/errors"
)

const testYAML = `
frontend:
  listen_address: 127.0.0.1
  listen_port: 9090
  pool_size: 8
  read_limit_bytes: 8192
  default_headers:
    X-Powered-By: trestle
static:
  root: /var/www
logging:
  log_level: debug
reload:
  rate_limit_ms: 100
`

func writeTestConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trestle.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	if c.Frontend.ListenPort != DefaultListenPort {
		t.Errorf("expected %d got %d", DefaultListenPort, c.Frontend.ListenPort)
	}
	if c.Frontend.PoolSize != DefaultPoolSize {
		t.Errorf("expected %d got %d", DefaultPoolSize, c.Frontend.PoolSize)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Frontend.ListenAddress != "127.0.0.1" {
		t.Errorf("expected 127.0.0.1 got %s", c.Frontend.ListenAddress)
	}
	if c.Frontend.ListenPort != 9090 {
		t.Errorf("expected 9090 got %d", c.Frontend.ListenPort)
	}
	if c.Frontend.PoolSize != 8 {
		t.Errorf("expected 8 got %d", c.Frontend.PoolSize)
	}
	// unset values retain defaults
	if c.Frontend.QueueDepth != DefaultQueueDepth {
		t.Errorf("expected %d got %d", DefaultQueueDepth, c.Frontend.QueueDepth)
	}
	if c.Static.Root != "/var/www" {
		t.Errorf("expected /var/www got %s", c.Static.Root)
	}
	if v := c.Frontend.DefaultHeaders["X-Powered-By"]; v != "trestle" {
		t.Errorf("expected trestle got %s", v)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/trestle.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEnvVars(t *testing.T) {
	t.Setenv(evListenPort, "9191")
	t.Setenv(evLogLevel, "warn")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Frontend.ListenPort != 9191 {
		t.Errorf("expected 9191 got %d", c.Frontend.ListenPort)
	}
	if c.Logging.LogLevel != "warn" {
		t.Errorf("expected warn got %s", c.Logging.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Frontend.ListenPort = 99999 }},
		{"zero pool", func(c *Config) { c.Frontend.PoolSize = 0 }},
		{"zero queue", func(c *Config) { c.Frontend.QueueDepth = 0 }},
		{"negative limit", func(c *Config) { c.Frontend.ReadLimitBytes = -1 }},
		{"tls without certs", func(c *Config) { c.Frontend.ServeTLS = true }},
		{"bad level", func(c *Config) { c.Logging.LogLevel = "verbose" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewConfig()
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIsStale(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.IsStale() {
		t.Error("expected fresh config")
	}
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if !c.IsStale() {
		t.Error("expected stale config")
	}
}

func TestCloneAndEqual(t *testing.T) {
	path := writeTestConfig(t, testYAML)
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c2 := c.Clone()
	if !c.Frontend.Equal(c2.Frontend) {
		t.Error("expected clone frontend to be equal")
	}
	c2.Frontend.ListenPort++
	if c.Frontend.Equal(c2.Frontend) {
		t.Error("expected inequality after mutation")
	}
	if c.Frontend.Equal(nil) {
		t.Error("expected inequality with nil")
	}
}

func TestString(t *testing.T) {
	c := NewConfig()
	s := c.String()
	if !strings.Contains(s, "listen_port") {
		t.Error("expected yaml output to contain listen_port")
	}
}

func TestValidateNilSection(t *testing.T) {
	c := NewConfig()
	c.Frontend = nil
	if err := c.Validate(); err != errors.ErrInvalidOptions {
		t.Errorf("expected ErrInvalidOptions got %v", err)
	}
}
