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

// Package server provides the embeddable HTTP server runtime: a pool of
// connection workers fed by a bounded queue, serving requests against an
// atomically swappable state snapshot.
package server

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/trickstercache/trestle/pkg/appinfo"
	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/handlers"
	"github.com/trickstercache/trestle/pkg/listener"
	"github.com/trickstercache/trestle/pkg/methods"
	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/observability/metrics"
	"github.com/trickstercache/trestle/pkg/router"
	"github.com/trickstercache/trestle/pkg/router/fm"
	"github.com/trickstercache/trestle/pkg/router/route"
	"github.com/trickstercache/trestle/pkg/static"
)

// Server is the connection engine. Routes, status pages and default
// headers are registered before ListenAndServe; afterward the running
// state is changed through the Controller.
type Server struct {
	swapper  *Swapper
	listener *listener.Listener

	queue    chan net.Conn
	control  chan controlMessage
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	workers sync.WaitGroup

	mtx     sync.Mutex
	started bool

	conf           *config.Config
	router         router.Router
	defaultHeaders map[string]string
	statusPages    *handlers.StatusPages
}

// New returns a Server for the provided configuration. A nil conf uses
// the defaults.
func New(conf *config.Config) (*Server, error) {
	if conf == nil {
		conf = config.NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	dh := make(map[string]string, len(conf.Frontend.DefaultHeaders))
	for k, v := range conf.Frontend.DefaultHeaders {
		dh[k] = v
	}
	return &Server{
		conf:           conf,
		router:         fm.NewRouter(),
		defaultHeaders: dh,
		statusPages:    handlers.NewStatusPages(),
		control:        make(chan controlMessage),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Config returns the configuration the Server was created with; after
// start, the live configuration is on the current Snapshot
func (s *Server) Config() *config.Config {
	return s.conf
}

// Route registers a handler for the provided path pattern and methods
func (s *Server) Route(path string, methodList []string, opts *route.Options,
	handler handlers.Handler) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.started {
		return errors.ErrServerRunning
	}
	return s.router.RegisterRoute(path, methodList, opts, handler)
}

// Get registers a handler for GET and HEAD requests on path
func (s *Server) Get(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodGet, http.MethodHead}, nil, handler)
}

// Post registers a handler for POST requests on path
func (s *Server) Post(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodPost}, nil, handler)
}

// Put registers a handler for PUT requests on path
func (s *Server) Put(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodPut}, nil, handler)
}

// Patch registers a handler for PATCH requests on path
func (s *Server) Patch(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodPatch}, nil, handler)
}

// Delete registers a handler for DELETE requests on path
func (s *Server) Delete(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodDelete}, nil, handler)
}

// Options registers a handler for OPTIONS requests on path
func (s *Server) Options(path string, handler handlers.Handler) error {
	return s.Route(path, []string{http.MethodOptions}, nil, handler)
}

// All registers a handler for any method on path
func (s *Server) All(path string, handler handlers.Handler) error {
	return s.Route(path, []string{methods.MethodAll}, nil, handler)
}

// SetStatusPage registers a custom error page generator for the
// provided status code
func (s *Server) SetStatusPage(code int, f handlers.StatusPageFunc) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.started {
		return errors.ErrServerRunning
	}
	s.statusPages.Set(code, f)
	return nil
}

// SetDefaultHeader sets a header applied to every response whose
// handler did not set it
func (s *Server) SetDefaultHeader(name, value string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.started {
		return errors.ErrServerRunning
	}
	s.defaultHeaders[name] = value
	return nil
}

// Controller returns the control handle for the Server
func (s *Server) Controller() *Controller {
	return &Controller{s: s}
}

// ListenAndServe binds the configured listener and serves connections
// until the Controller requests shutdown. Bind and TLS errors are
// returned synchronously; a clean shutdown returns nil.
func (s *Server) ListenAndServe() error {
	s.mtx.Lock()
	if s.started {
		s.mtx.Unlock()
		return errors.ErrServerRunning
	}
	conf := s.conf
	appinfo.SetServer(conf.Main.ServerName)

	var tlsConfig *tls.Config
	if conf.Frontend.ServeTLS {
		var err error
		if tlsConfig, err = conf.TLSCertConfig(); err != nil {
			s.mtx.Unlock()
			return err
		}
	}

	l, err := listener.New(conf.Frontend.ListenAddress, conf.Frontend.ListenPort,
		conf.Frontend.ConnectionsLimit, tlsConfig)
	if err != nil {
		s.mtx.Unlock()
		return err
	}
	s.listener = l

	st, err := static.NewResolver(conf.Static)
	if err != nil {
		l.Close()
		s.mtx.Unlock()
		return err
	}

	s.swapper = NewSwapper(&Snapshot{
		Config:         conf,
		Router:         s.router,
		Static:         st,
		DefaultHeaders: s.defaultHeaders,
		StatusPages:    s.statusPages,
	})

	s.queue = make(chan net.Conn, conf.Frontend.QueueDepth)
	for i := 0; i < conf.Frontend.PoolSize; i++ {
		s.workers.Add(1)
		go s.worker()
	}
	go s.controlLoop()
	s.started = true
	s.mtx.Unlock()

	scheme := "http"
	if tlsConfig != nil {
		scheme = "https"
	}
	logger.Info("frontend listener starting", logging.Pairs{
		"scheme": scheme, "address": l.Addr().String(),
		"poolSize": conf.Frontend.PoolSize, "queueDepth": conf.Frontend.QueueDepth,
	})

	acceptErr := s.acceptLoop()
	// on an accept failure the controlLoop has not been stopped; signal
	// it here so it does not outlive the server
	s.signalStop()
	s.drain(conf.Reload.DrainTimeout())
	close(s.done)
	return acceptErr
}

// signalStop closes the stop channel exactly once, ending the control
// loop and forcing keep-alive connections to close after their current
// request
func (s *Server) signalStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Addr returns the bound listener address, or nil before start
func (s *Server) Addr() net.Addr {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop() error {
	for {
		c, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stop:
				return nil
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			logger.Error("listener accept failed", logging.Pairs{"error": err.Error()})
			return err
		}
		select {
		case s.queue <- c:
		default:
			// queue saturated; shed the connection rather than stall
			// the acceptor
			metrics.FrontendConnectionRejected.Inc()
			go s.rejectBusy(c)
		}
	}
}

// drain stops intake and waits for in-flight connections to finish,
// up to the drain timeout
func (s *Server) drain(timeout time.Duration) {
	close(s.queue)
	finished := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(finished)
	}()
	if timeout <= 0 {
		<-finished
		return
	}
	select {
	case <-finished:
	case <-time.After(timeout):
		logger.Warn("drain timeout reached with connections still open",
			logging.Pairs{"timeout": timeout.String()})
	}
}
