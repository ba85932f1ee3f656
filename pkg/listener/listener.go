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

// Package listener provides the server's network listener, which obeys
// the configured max connection limit and monitors connections with
// prometheus metrics.
package listener

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/trickstercache/trestle/pkg/observability/metrics"

	"golang.org/x/net/netutil"
)

// Listener is the Trestle net.Listener implementation
type Listener struct {
	net.Listener
	tlsSwapper *CertSwapper
}

type observedConnection struct {
	net.Conn
}

func (o *observedConnection) Close() error {
	err := o.Conn.Close()
	metrics.FrontendActiveConnections.Dec()
	metrics.FrontendConnectionClosed.Inc()
	return err
}

// Accept implements net.Listener, observing each connection with the
// frontend connection metrics
func (l *Listener) Accept() (net.Conn, error) {
	metrics.FrontendConnectionRequested.Inc()
	c, err := l.Listener.Accept()
	if err != nil {
		metrics.FrontendConnectionFailed.Inc()
		return c, err
	}
	metrics.FrontendActiveConnections.Inc()
	metrics.FrontendConnectionAccepted.Inc()
	return &observedConnection{c}, nil
}

// CertSwapper returns the CertSwapper reference from the Listener; nil
// for non-TLS listeners
func (l *Listener) CertSwapper() *CertSwapper {
	return l.tlsSwapper
}

// New creates a network listener on the provided address and port.
// When tlsConfig is non-nil the listener terminates TLS, and its
// certificate list can be hot-swapped via CertSwapper. When
// connectionsLimit > 0 the listener blocks accepts beyond the limit
// until connections are returned.
func New(listenAddress string, listenPort, connectionsLimit int,
	tlsConfig *tls.Config) (*Listener, error) {

	var inner net.Listener
	var err error
	var swapper *CertSwapper

	address := fmt.Sprintf("%s:%d", listenAddress, listenPort)

	if tlsConfig != nil {
		swapper = NewSwapper(tlsConfig.Certificates)
		// the swapper serves certs so the list can change under a
		// running listener
		cfg := tlsConfig.Clone()
		cfg.Certificates = nil
		cfg.GetCertificate = swapper.GetCert
		inner, err = tls.Listen("tcp", address, cfg)
	} else {
		inner, err = net.Listen("tcp", address)
	}
	if err != nil {
		// this usually means the port is in use
		return nil, err
	}

	if connectionsLimit > 0 {
		inner = netutil.LimitListener(inner, connectionsLimit)
		metrics.FrontendMaxConnections.Set(float64(connectionsLimit))
	}

	return &Listener{Listener: inner, tlsSwapper: swapper}, nil
}
