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

package server

import (
	"context"
	"fmt"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/router"
	"github.com/trickstercache/trestle/pkg/static"
)

type controlKind int

const (
	ctrlShutdown controlKind = iota
	ctrlSwapRouter
	ctrlReload
)

type controlMessage struct {
	kind   controlKind
	router router.Router
	conf   *config.Config
	reply  chan error
}

// controlLoop serializes all control-plane mutations against the
// running server
func (s *Server) controlLoop() {
	for {
		select {
		case <-s.stop:
			return
		case msg := <-s.control:
			switch msg.kind {
			case ctrlShutdown:
				logger.Info("shutdown requested, draining connections", nil)
				s.signalStop()
				s.listener.Close()
				msg.reply <- nil
				return
			case ctrlSwapRouter:
				sn := s.swapper.Load().clone()
				sn.Router = msg.router
				s.swapper.Store(sn)
				logger.Info("route table hot-swapped", nil)
				msg.reply <- nil
			case ctrlReload:
				msg.reply <- s.applyConfig(msg.conf)
			}
		}
	}
}

// send submits a control message and waits for its result
func (s *Server) send(msg controlMessage) error {
	s.mtx.Lock()
	started := s.started
	s.mtx.Unlock()
	if !started {
		return errors.ErrServerClosed
	}
	msg.reply = make(chan error, 1)
	select {
	case s.control <- msg:
		return <-msg.reply
	case <-s.stop:
		return errors.ErrServerClosed
	}
}

// applyConfig swaps the running configuration in place. The listener
// binding cannot change on a live server; TLS certificates are swapped
// on the running listener.
func (s *Server) applyConfig(conf *config.Config) error {
	if conf == nil {
		return errors.ErrInvalidOptions
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	cur := s.swapper.Load()
	old := cur.Config

	if listenerChanged(old.Frontend, conf.Frontend) {
		return fmt.Errorf("%w: listener settings changed, restart required",
			errors.ErrNotReloaded)
	}

	if conf.Frontend.ServeTLS && config.TLSOptionsChanged(conf, old) {
		sw := s.listener.CertSwapper()
		if sw == nil {
			return fmt.Errorf("%w: cannot add TLS to a running listener",
				errors.ErrNotReloaded)
		}
		tc, err := conf.TLSCertConfig()
		if err != nil {
			return err
		}
		sw.SetCerts(tc.Certificates)
		logger.Info("TLS certificates hot-swapped", nil)
	}

	st, err := static.NewResolver(conf.Static)
	if err != nil {
		return err
	}

	sn := cur.clone()
	sn.Config = conf
	sn.Static = st
	if len(conf.Frontend.DefaultHeaders) > 0 || len(cur.DefaultHeaders) > 0 {
		dh := make(map[string]string, len(conf.Frontend.DefaultHeaders))
		for k, v := range conf.Frontend.DefaultHeaders {
			dh[k] = v
		}
		sn.DefaultHeaders = dh
	}
	s.swapper.Store(sn)
	logger.Info(config.ConfigReloadedText,
		logging.Pairs{"source": conf.Resources.Path})
	return nil
}

// listenerChanged reports whether fc2 requires a different listener
// binding than fc
func listenerChanged(fc, fc2 *config.FrontendConfig) bool {
	return fc.ListenAddress != fc2.ListenAddress ||
		fc.ListenPort != fc2.ListenPort ||
		fc.ConnectionsLimit != fc2.ConnectionsLimit ||
		fc.ServeTLS != fc2.ServeTLS
}

// Controller is the control handle for a running Server. Its methods
// are safe for concurrent use.
type Controller struct {
	s *Server
}

// Shutdown stops intake and waits for in-flight connections to drain,
// or for ctx to expire
func (c *Controller) Shutdown(ctx context.Context) error {
	if err := c.s.send(controlMessage{kind: ctrlShutdown}); err != nil {
		return err
	}
	select {
	case <-c.s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SwapRouter atomically replaces the route table. In-flight requests
// finish against the table they started with.
func (c *Controller) SwapRouter(r router.Router) error {
	if r == nil {
		return errors.ErrInvalidOptions
	}
	return c.s.send(controlMessage{kind: ctrlSwapRouter, router: r})
}

// Reload validates and applies a new configuration to the running
// server. Changes to the listener binding are refused with
// errors.ErrNotReloaded.
func (c *Controller) Reload(conf *config.Config) error {
	return c.s.send(controlMessage{kind: ctrlReload, conf: conf})
}
