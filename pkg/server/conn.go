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
	goerrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/trickstercache/trestle/pkg/encoding"
	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/headers"
	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
	"github.com/trickstercache/trestle/pkg/observability/metrics"
	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
)

func (s *Server) worker() {
	defer s.workers.Done()
	for c := range s.queue {
		s.serveConn(c)
	}
}

// serveConn frames and serves requests from one connection until the
// client closes, keep-alive ends, or the server stops
func (s *Server) serveConn(c net.Conn) {
	defer c.Close()
	fr := request.NewFramer(c, s.swapper.Load().Config.Frontend.ReadLimitBytes,
		c.RemoteAddr().String())
	for {
		sn := s.swapper.Load()
		fc := sn.Config.Frontend
		if rt := fc.ReadTimeout(); rt > 0 {
			c.SetReadDeadline(time.Now().Add(rt))
		}
		err := fr.WaitReady()
		if err == io.EOF {
			return
		}
		var req *request.Request
		if err == nil {
			// the request has started arriving; pin the snapshot current
			// at arrival so one snapshot, including the framer's read
			// limit, governs the whole request
			sn = s.swapper.Load()
			fc = sn.Config.Frontend
			fr.SetLimit(fc.ReadLimitBytes)
			if rt := fc.ReadTimeout(); rt > 0 {
				c.SetReadDeadline(time.Now().Add(rt))
			}
			req, err = fr.ReadRequest()
			if err == io.EOF {
				return
			}
		}
		start := time.Now()
		resp := response.New()
		keepAlive := false
		label := "error"
		if err != nil {
			req = &request.Request{RemoteAddr: c.RemoteAddr().String()}
			sn.StatusPages.Render(statusForError(err), req, resp)
			s.finalize(sn, req, resp)
		} else {
			keepAlive = req.KeepAlive
			resp.Proto = req.Proto
			label = s.handle(sn, req, resp)
		}
		select {
		case <-s.stop:
			keepAlive = false
		default:
		}
		if wt := fc.WriteTimeout(); wt > 0 {
			c.SetWriteDeadline(time.Now().Add(wt))
		}
		n, werr := resp.WriteTo(c, keepAlive)
		observe(req, resp, label, n, time.Since(start))
		if err != nil || werr != nil || !keepAlive {
			return
		}
	}
}

// handle routes the request and runs its handler, recovering from
// handler panics so one request cannot take down a worker. The returned
// label is the matched route pattern, or a fixed token for unrouted and
// static requests, so metric cardinality stays bounded.
func (s *Server) handle(sn *Snapshot, req *request.Request,
	resp *response.Response) (label string) {
	label = "unrouted"
	defer func() {
		if r := recover(); r != nil {
			metrics.WorkerPanicsRecovered.Inc()
			logger.Error("recovered from handler panic", logging.Pairs{
				"panic": r, "method": req.Method, "path": req.Path,
				"requestID": req.ID,
			})
			*resp = *response.New()
			sn.StatusPages.Render(http.StatusInternalServerError, req, resp)
			s.finalize(sn, req, resp)
		}
	}()

	suppress := req.Method == http.MethodHead
	m := sn.Router.Match(req.Method, req.Path)
	if suppress && (m == nil || m.Handler == nil) {
		// a HEAD request with no HEAD route is served by the GET route
		// with the body elided
		if gm := sn.Router.Match(http.MethodGet, req.Path); gm != nil &&
			gm.Handler != nil {
			m = gm
		}
	}

	switch {
	case m != nil && m.Handler != nil:
		label = m.Path
		req.Params = m.Params
		m.Handler(req, resp)
	case m != nil:
		label = m.Path
		sn.StatusPages.Render(http.StatusMethodNotAllowed, req, resp)
	default:
		if sn.Static != nil {
			label = "static"
		}
		s.serveStatic(sn, req, resp)
	}
	resp.SuppressBody = suppress
	s.finalize(sn, req, resp)
	return label
}

// serveStatic attempts the static file fallback for unrouted paths
func (s *Server) serveStatic(sn *Snapshot, req *request.Request, resp *response.Response) {
	if sn.Static == nil ||
		(req.Method != http.MethodGet && req.Method != http.MethodHead) {
		sn.StatusPages.Render(http.StatusNotFound, req, resp)
		return
	}
	f, err := sn.Static.Resolve(req.Path)
	switch {
	case err == nil:
		resp.WithHeader(headers.NameContentType, f.ContentType).WithBody(f.Body)
	case goerrors.Is(err, errors.ErrForbidden):
		sn.StatusPages.Render(http.StatusForbidden, req, resp)
	default:
		sn.StatusPages.Render(http.StatusNotFound, req, resp)
	}
}

// finalize applies default headers and the negotiated content encoding
func (s *Server) finalize(sn *Snapshot, req *request.Request, resp *response.Response) {
	for k, v := range sn.DefaultHeaders {
		resp.SetDefaultHeader(k, v)
	}
	if sn.Config.Encoding != nil && sn.Config.Encoding.Enabled && req != nil {
		ae, _ := req.Header(headers.NameAcceptEncoding)
		encoding.EncodeResponse(resp, ae, sn.Config.Encoding.MinBytes)
	}
}

// rejectBusy sheds a connection the queue has no room for
func (s *Server) rejectBusy(c net.Conn) {
	defer c.Close()
	c.SetWriteDeadline(time.Now().Add(5 * time.Second))
	resp := response.New().WithStatus(http.StatusServiceUnavailable).
		WithText("503 Service Unavailable\n").
		WithHeader(headers.NameRetryAfter, "1")
	resp.WriteTo(c, false)
	logger.Debug("connection rejected, work queue full",
		logging.Pairs{"remoteAddr": c.RemoteAddr().String()})
}

func statusForError(err error) int {
	switch {
	case goerrors.Is(err, errors.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case goerrors.Is(err, errors.ErrRequestTimeout):
		return http.StatusRequestTimeout
	case goerrors.Is(err, errors.ErrUnsupportedEncoding):
		return http.StatusNotImplemented
	}
	return http.StatusBadRequest
}

// observe records request metrics labeled by the matched route pattern
// rather than the raw request path, which is client-controlled
func observe(req *request.Request, resp *response.Response, label string,
	written int, dur time.Duration) {
	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	status := strconv.Itoa(code)
	metrics.FrontendRequestStatus.
		WithLabelValues(req.Method, label, status).Inc()
	metrics.FrontendRequestDuration.
		WithLabelValues(req.Method, label, status).Observe(dur.Seconds())
	metrics.FrontendRequestWrittenBytes.
		WithLabelValues(req.Method, label, status).Add(float64(written))
}
