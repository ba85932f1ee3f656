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
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigReloadedText is the message logged when a reload was applied
const ConfigReloadedText = "configuration reloaded"

// ConfigNotReloadedText is the message logged when a reload was declined
const ConfigNotReloadedText = "configuration NOT reloaded"

// Load returns the application Configuration, starting with a default config,
// then overriding with any provided config file, and finally env vars
func Load(path string) (*Config, error) {
	c := NewConfig()
	if path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}
	c.loadEnvVars()
	c.Resources.LoadTime = time.Now()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(b, c); err != nil {
		return err
	}
	c.Resources.Path = path
	if fi, err := os.Stat(path); err == nil {
		c.Resources.ModTime = fi.ModTime()
	}
	return nil
}

// IsStale returns true if the file the Config was loaded from has been
// modified since load; non-file-backed Configs are never stale
func (c *Config) IsStale() bool {
	if c.Resources == nil || c.Resources.Path == "" {
		return false
	}
	fi, err := os.Stat(c.Resources.Path)
	if err != nil {
		return false
	}
	return fi.ModTime() != c.Resources.ModTime
}

// String returns the running configuration rendered as YAML, suitable for
// the config handler output
func (c *Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}
