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
	"crypto/tls"
)

// TLSCertConfig returns the crypto/tls configuration object derived from the
// running config, or nil when the frontend does not serve TLS
func (c *Config) TLSCertConfig() (*tls.Config, error) {
	if c.Frontend == nil || !c.Frontend.ServeTLS {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(c.Frontend.TLSCertPath, c.Frontend.TLSKeyPath)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}, nil
}

// TLSOptionsChanged returns true if the TLS-relevant portions of the two
// configs differ, meaning the listener's certificates require a swap
func TLSOptionsChanged(conf, oldConf *Config) bool {
	if conf == nil || conf.Frontend == nil {
		return false
	}
	if oldConf == nil || oldConf.Frontend == nil {
		return conf.Frontend.ServeTLS
	}
	return conf.Frontend.ServeTLS != oldConf.Frontend.ServeTLS ||
		conf.Frontend.TLSCertPath != oldConf.Frontend.TLSCertPath ||
		conf.Frontend.TLSKeyPath != oldConf.Frontend.TLSKeyPath
}
