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

package listener

import (
	"crypto/tls"
	"errors"
	"sync/atomic"
)

// CertSwapper is used by a TLS listener to dynamically update the
// running Listener's certificate list. This allows certificate configs
// to be loaded and unloaded without restarting the process.
type CertSwapper struct {
	certificates atomic.Value
}

var errNoCertificates = errors.New("tls: no certificates configured")

// NewSwapper returns a new CertSwapper based on the provided certList
func NewSwapper(certList []tls.Certificate) *CertSwapper {
	sw := &CertSwapper{}
	sw.SetCerts(certList)
	return sw
}

// GetCert returns the best-matching certificate for the provided clientHello
func (c *CertSwapper) GetCert(clientHello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	certs, ok := c.certificates.Load().([]tls.Certificate)
	if !ok || len(certs) == 0 {
		return nil, errNoCertificates
	}
	if len(certs) == 1 {
		// there's only one choice, so no point doing any work
		return &certs[0], nil
	}
	for i := range certs {
		if err := clientHello.SupportsCertificate(&certs[i]); err == nil {
			return &certs[i], nil
		}
	}
	// if nothing matches, return the first certificate
	return &certs[0], nil
}

// SetCerts safely updates the certs list for the subject *CertSwapper
func (c *CertSwapper) SetCerts(certs []tls.Certificate) {
	if certs == nil {
		certs = []tls.Certificate{}
	}
	c.certificates.Store(certs)
}
