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
	goerrors "errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/encoding/gzip"
	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/handlers"
	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
	"github.com/trickstercache/trestle/pkg/router/fm"
)

func testConfig() *config.Config {
	conf := config.NewConfig()
	conf.Frontend.ListenAddress = "127.0.0.1"
	conf.Frontend.ListenPort = 0
	conf.Reload.DrainTimeoutMS = 2000
	return conf
}

func startTestServer(t *testing.T, conf *config.Config,
	register func(*Server)) *Server {
	t.Helper()
	if conf == nil {
		conf = testConfig()
	}
	s, err := New(conf)
	if err != nil {
		t.Fatal(err)
	}
	if register != nil {
		register(s)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	deadline := time.Now().Add(2 * time.Second)
	for s.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.Controller().Shutdown(ctx)
		select {
		case <-errCh:
		case <-time.After(3 * time.Second):
			t.Error("server did not stop")
		}
	})
	return s
}

// roundTrip sends one raw request and returns the raw response
func roundTrip(t *testing.T, addr, raw string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, err = c.Write([]byte(raw)); err != nil {
		t.Fatal(err)
	}
	c.SetReadDeadline(time.Now().Add(3 * time.Second))
	b, _ := io.ReadAll(c)
	return string(b)
}

func body(resp string) string {
	if i := strings.Index(resp, "\r\n\r\n"); i >= 0 {
		return resp[i+4:]
	}
	return ""
}

func TestServeRoutes(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/hello", func(req *request.Request, resp *response.Response) {
			resp.WithText("hello")
		})
		s.Get("/users/:id", func(req *request.Request, resp *response.Response) {
			resp.WithText("user " + req.Param("id"))
		})
		s.Post("/submit", func(req *request.Request, resp *response.Response) {
			resp.WithStatus(http.StatusCreated).WithText(string(req.Body))
		})
	})
	addr := s.Addr().String()

	resp := roundTrip(t, addr, "GET /hello HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK") || body(resp) != "hello" {
		t.Errorf("unexpected response:\n%s", resp)
	}

	resp = roundTrip(t, addr, "GET /users/42 HTTP/1.1\r\nConnection: close\r\n\r\n")
	if body(resp) != "user 42" {
		t.Errorf("unexpected response:\n%s", resp)
	}

	resp = roundTrip(t, addr,
		"POST /submit HTTP/1.1\r\nContent-Length: 4\r\nConnection: close\r\n\r\nping")
	if !strings.HasPrefix(resp, "HTTP/1.1 201 Created") || body(resp) != "ping" {
		t.Errorf("unexpected response:\n%s", resp)
	}

	resp = roundTrip(t, addr, "GET /nope HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 404 Not Found") {
		t.Errorf("expected 404:\n%s", resp)
	}

	resp = roundTrip(t, addr, "DELETE /hello HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 405 Method Not Allowed") {
		t.Errorf("expected 405:\n%s", resp)
	}
}

func TestHeadSuppressesBody(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/page", func(req *request.Request, resp *response.Response) {
			resp.WithText("12345")
		})
	})
	resp := roundTrip(t, s.Addr().String(),
		"HEAD /page HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK") {
		t.Errorf("expected 200:\n%s", resp)
	}
	if !strings.Contains(resp, "Content-Length: 5\r\n") {
		t.Errorf("expected entity length preserved:\n%s", resp)
	}
	if body(resp) != "" {
		t.Errorf("expected no body:\n%s", resp)
	}
}

func TestStaticFallback(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "site.css"), []byte("body{}"),
		0644); err != nil {
		t.Fatal(err)
	}
	conf := testConfig()
	conf.Static.Root = root
	s := startTestServer(t, conf, func(s *Server) {
		s.Get("/api", func(req *request.Request, resp *response.Response) {
			resp.WithText("api")
		})
	})
	addr := s.Addr().String()

	resp := roundTrip(t, addr, "GET /site.css HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK") || body(resp) != "body{}" {
		t.Errorf("unexpected response:\n%s", resp)
	}
	if !strings.Contains(resp, "text/css") {
		t.Errorf("expected css content type:\n%s", resp)
	}

	// routed paths are not shadowed by the filesystem
	resp = roundTrip(t, addr, "GET /api HTTP/1.1\r\nConnection: close\r\n\r\n")
	if body(resp) != "api" {
		t.Errorf("unexpected response:\n%s", resp)
	}

	resp = roundTrip(t, addr, "GET /missing.css HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 404 Not Found") {
		t.Errorf("expected 404:\n%s", resp)
	}
}

func TestFramingErrors(t *testing.T) {
	conf := testConfig()
	conf.Frontend.ReadLimitBytes = 128
	s := startTestServer(t, conf, nil)
	addr := s.Addr().String()

	// the declared length alone trips the limit, before any body is read
	resp := roundTrip(t, addr, "POST / HTTP/1.1\r\nContent-Length: 4096\r\n"+
		"Connection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 413 Request Entity Too Large") {
		t.Errorf("expected 413:\n%s", resp)
	}

	resp = roundTrip(t, addr, "NOT A REQUEST LINE AT ALL\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 400 Bad Request") {
		t.Errorf("expected 400:\n%s", resp)
	}

	resp = roundTrip(t, addr,
		"POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 501 Not Implemented") {
		t.Errorf("expected 501:\n%s", resp)
	}
}

func TestPanicIsolation(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/boom", func(req *request.Request, resp *response.Response) {
			panic("kaboom")
		})
		s.Get("/ok", func(req *request.Request, resp *response.Response) {
			resp.WithText("still here")
		})
	})
	addr := s.Addr().String()

	resp := roundTrip(t, addr, "GET /boom HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 500 Internal Server Error") {
		t.Errorf("expected 500:\n%s", resp)
	}
	// the worker survives the panic
	resp = roundTrip(t, addr, "GET /ok HTTP/1.1\r\nConnection: close\r\n\r\n")
	if body(resp) != "still here" {
		t.Errorf("unexpected response:\n%s", resp)
	}
}

func TestKeepAlive(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/a", func(req *request.Request, resp *response.Response) {
			resp.WithText("a")
		})
		s.Get("/b", func(req *request.Request, resp *response.Response) {
			resp.WithText("b")
		})
	})
	c, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.SetDeadline(time.Now().Add(3 * time.Second))

	if _, err = c.Write([]byte("GET /a HTTP/1.1\r\n\r\n")); err != nil {
		t.Fatal(err)
	}
	first := readOneResponse(t, c)
	if !strings.Contains(first, "Connection: keep-alive\r\n") ||
		body(first) != "a" {
		t.Errorf("unexpected first response:\n%s", first)
	}

	if _, err = c.Write([]byte("GET /b HTTP/1.1\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(c)
	second := string(b)
	if !strings.Contains(second, "Connection: close\r\n") || body(second) != "b" {
		t.Errorf("unexpected second response:\n%s", second)
	}
}

// readOneResponse reads exactly one response using its Content-Length
func readOneResponse(t *testing.T, c net.Conn) string {
	t.Helper()
	buf := make([]byte, 0, 1024)
	tmp := make([]byte, 256)
	for {
		s := string(buf)
		if hi := strings.Index(s, "\r\n\r\n"); hi >= 0 {
			cl := 0
			for _, line := range strings.Split(s[:hi], "\r\n") {
				if strings.HasPrefix(line, "Content-Length: ") {
					cl, _ = strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
				}
			}
			if len(s) >= hi+4+cl {
				return s[:hi+4+cl]
			}
		}
		n, err := c.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestDefaultHeaders(t *testing.T) {
	conf := testConfig()
	conf.Frontend.DefaultHeaders = map[string]string{"X-Frame-Options": "DENY"}
	s := startTestServer(t, conf, func(s *Server) {
		s.SetDefaultHeader("X-Powered-By", "trestle")
		s.Get("/h", func(req *request.Request, resp *response.Response) {
			resp.WithHeader("X-Powered-By", "handler").WithText("h")
		})
	})
	resp := roundTrip(t, s.Addr().String(),
		"GET /h HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.Contains(resp, "X-Frame-Options: DENY\r\n") {
		t.Errorf("expected configured default header:\n%s", resp)
	}
	// a handler-set header wins over the default
	if !strings.Contains(resp, "X-Powered-By: handler\r\n") {
		t.Errorf("expected handler header to win:\n%s", resp)
	}
}

func TestResponseEncoding(t *testing.T) {
	big := strings.Repeat("trestle trestle trestle ", 100)
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/big", func(req *request.Request, resp *response.Response) {
			resp.WithText(big)
		})
	})
	resp := roundTrip(t, s.Addr().String(),
		"GET /big HTTP/1.1\r\nAccept-Encoding: gzip\r\nConnection: close\r\n\r\n")
	if !strings.Contains(resp, "Content-Encoding: gzip\r\n") {
		t.Fatalf("expected gzip encoding:\n%s", resp)
	}
	b, err := gzip.Decode([]byte(body(resp)))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != big {
		t.Error("decoded body mismatch")
	}
}

func TestHotSwapRouter(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/v1", func(req *request.Request, resp *response.Response) {
			resp.WithText("v1")
		})
	})
	addr := s.Addr().String()

	if resp := roundTrip(t, addr,
		"GET /v1 HTTP/1.1\r\nConnection: close\r\n\r\n"); body(resp) != "v1" {
		t.Fatalf("unexpected response:\n%s", resp)
	}

	rt := fm.NewRouter()
	rt.RegisterRoute("/v2", []string{"GET"}, nil,
		func(req *request.Request, resp *response.Response) {
			resp.WithText("v2")
		})
	if err := s.Controller().SwapRouter(rt); err != nil {
		t.Fatal(err)
	}

	if resp := roundTrip(t, addr,
		"GET /v2 HTTP/1.1\r\nConnection: close\r\n\r\n"); body(resp) != "v2" {
		t.Errorf("unexpected response:\n%s", resp)
	}
	if resp := roundTrip(t, addr,
		"GET /v1 HTTP/1.1\r\nConnection: close\r\n\r\n"); !strings.HasPrefix(resp,
		"HTTP/1.1 404 Not Found") {
		t.Errorf("expected old route gone:\n%s", resp)
	}
}

func TestSwapRouterWithInFlightRequests(t *testing.T) {
	const inflight = 3
	entered := make(chan struct{}, inflight)
	release := make(chan struct{})
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/v1", func(req *request.Request, resp *response.Response) {
			entered <- struct{}{}
			<-release
			resp.WithText("old")
		})
	})
	addr := s.Addr().String()

	results := make(chan string, inflight)
	for i := 0; i < inflight; i++ {
		go func() {
			c, err := net.Dial("tcp", addr)
			if err != nil {
				results <- "dial failed: " + err.Error()
				return
			}
			defer c.Close()
			c.SetDeadline(time.Now().Add(5 * time.Second))
			c.Write([]byte("GET /v1 HTTP/1.1\r\nConnection: close\r\n\r\n"))
			b, _ := io.ReadAll(c)
			results <- string(b)
		}()
	}
	for i := 0; i < inflight; i++ {
		select {
		case <-entered:
		case <-time.After(3 * time.Second):
			t.Fatal("in-flight handlers did not start")
		}
	}

	// swap the route table while every request is mid-handler
	rt := fm.NewRouter()
	rt.RegisterRoute("/v1", []string{"GET"}, nil,
		func(req *request.Request, resp *response.Response) {
			resp.WithText("new")
		})
	if err := s.Controller().SwapRouter(rt); err != nil {
		t.Fatal(err)
	}
	close(release)

	// requests in flight at swap time complete against their snapshot
	for i := 0; i < inflight; i++ {
		if resp := <-results; body(resp) != "old" {
			t.Errorf("in-flight request saw the swapped table:\n%s", resp)
		}
	}
	// requests arriving after the swap see only the new table
	if resp := roundTrip(t, addr,
		"GET /v1 HTTP/1.1\r\nConnection: close\r\n\r\n"); body(resp) != "new" {
		t.Errorf("post-swap request missed the new table:\n%s", resp)
	}
}

func TestReloadReadLimitKeepAlive(t *testing.T) {
	conf := testConfig()
	s := startTestServer(t, conf, func(s *Server) {
		s.Post("/in", func(req *request.Request, resp *response.Response) {
			resp.WithText("ok")
		})
	})
	c, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	c.SetDeadline(time.Now().Add(3 * time.Second))

	if _, err = c.Write([]byte(
		"POST /in HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi")); err != nil {
		t.Fatal(err)
	}
	if first := readOneResponse(t, c); !strings.HasPrefix(first, "HTTP/1.1 200") {
		t.Fatalf("unexpected first response:\n%s", first)
	}

	nc := conf.Clone()
	nc.Frontend.ReadLimitBytes = 64
	if err = s.Controller().Reload(nc); err != nil {
		t.Fatal(err)
	}

	// the next request on the same keep-alive connection observes the
	// reloaded limit
	if _, err = c.Write([]byte(
		"POST /in HTTP/1.1\r\nContent-Length: 4096\r\n\r\n")); err != nil {
		t.Fatal(err)
	}
	if second := readOneResponse(t, c); !strings.HasPrefix(second, "HTTP/1.1 413") {
		t.Errorf("expected 413 after reload:\n%s", second)
	}
}

func TestProtocolEcho(t *testing.T) {
	s := startTestServer(t, nil, func(s *Server) {
		s.Get("/p", func(req *request.Request, resp *response.Response) {
			resp.WithText("p")
		})
	})
	resp := roundTrip(t, s.Addr().String(), "GET /p HTTP/1.0\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.0 200 OK\r\n") {
		t.Errorf("expected an HTTP/1.0 status line:\n%s", resp)
	}
}

func TestAcceptErrorStopsControlLoop(t *testing.T) {
	s, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Get("/x", func(req *request.Request, resp *response.Response) {
		resp.WithText("x")
	})
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	deadline := time.Now().Add(2 * time.Second)
	for s.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// fail the listener without a shutdown request
	s.listener.Close()
	select {
	case err = <-errCh:
		if err == nil {
			t.Error("expected an accept error")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not exit on listener failure")
	}

	// the control loop must be gone; control calls fail fast
	done := make(chan error, 1)
	go func() { done <- s.Controller().SwapRouter(fm.NewRouter()) }()
	select {
	case err = <-done:
		if !goerrors.Is(err, errors.ErrServerClosed) {
			t.Errorf("expected ErrServerClosed got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("control call hung after listener failure")
	}
}

func TestReloadConfig(t *testing.T) {
	conf := testConfig()
	s := startTestServer(t, conf, func(s *Server) {
		s.Get("/r", func(req *request.Request, resp *response.Response) {
			resp.WithText("r")
		})
	})
	addr := s.Addr().String()

	nc := conf.Clone()
	nc.Frontend.DefaultHeaders = map[string]string{"X-Env": "staging"}
	if err := s.Controller().Reload(nc); err != nil {
		t.Fatal(err)
	}
	resp := roundTrip(t, addr, "GET /r HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.Contains(resp, "X-Env: staging\r\n") {
		t.Errorf("expected reloaded default header:\n%s", resp)
	}

	// listener binding changes are refused
	nc2 := conf.Clone()
	nc2.Frontend.ListenPort = 1
	if err := s.Controller().Reload(nc2); !goerrors.Is(err, errors.ErrNotReloaded) {
		t.Errorf("expected ErrNotReloaded got %v", err)
	}

	if err := s.Controller().Reload(nil); !goerrors.Is(err,
		errors.ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions got %v", err)
	}
}

func TestGracefulShutdown(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	conf := testConfig()
	s, err := New(conf)
	if err != nil {
		t.Fatal(err)
	}
	s.Get("/slow", func(req *request.Request, resp *response.Response) {
		close(started)
		<-release
		resp.WithText("done")
	})
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	for s.Addr() == nil {
		time.Sleep(5 * time.Millisecond)
	}

	respCh := make(chan string, 1)
	go func() {
		c, err := net.Dial("tcp", s.Addr().String())
		if err != nil {
			respCh <- ""
			return
		}
		defer c.Close()
		c.Write([]byte("GET /slow HTTP/1.1\r\n\r\n"))
		c.SetReadDeadline(time.Now().Add(5 * time.Second))
		b, _ := io.ReadAll(c)
		respCh <- string(b)
	}()

	<-started
	shutdownDone := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownDone <- s.Controller().Shutdown(ctx)
	}()
	time.Sleep(100 * time.Millisecond)
	close(release)

	resp := <-respCh
	// the in-flight request completes and the connection is closed
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK") || body(resp) != "done" {
		t.Errorf("unexpected response:\n%s", resp)
	}
	if !strings.Contains(resp, "Connection: close\r\n") {
		t.Errorf("expected connection close during shutdown:\n%s", resp)
	}
	if err := <-shutdownDone; err != nil {
		t.Error(err)
	}
	if err := <-errCh; err != nil {
		t.Error(err)
	}
}

func TestQueueSaturationRejects(t *testing.T) {
	conf := testConfig()
	conf.Frontend.PoolSize = 1
	conf.Frontend.QueueDepth = 1
	release := make(chan struct{})
	started := make(chan struct{})
	s := startTestServer(t, conf, func(s *Server) {
		s.Get("/slow", func(req *request.Request, resp *response.Response) {
			close(started)
			<-release
			resp.WithText("slow")
		})
	})
	defer close(release)
	addr := s.Addr().String()

	// occupy the only worker
	c1, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c1.Close()
	c1.Write([]byte("GET /slow HTTP/1.1\r\nConnection: close\r\n\r\n"))
	<-started

	// fill the queue
	c2, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()
	time.Sleep(100 * time.Millisecond)

	// overflow is shed with a 503
	resp := roundTrip(t, addr, "")
	if !strings.HasPrefix(resp, "HTTP/1.1 503 Service Unavailable") {
		t.Errorf("expected 503:\n%s", resp)
	}
	if !strings.Contains(resp, "Retry-After: 1\r\n") {
		t.Errorf("expected retry-after:\n%s", resp)
	}
}

func TestRegistrationAfterStart(t *testing.T) {
	s := startTestServer(t, nil, nil)
	if err := s.Get("/late", func(req *request.Request,
		resp *response.Response) {
	}); !goerrors.Is(err, errors.ErrServerRunning) {
		t.Errorf("expected ErrServerRunning got %v", err)
	}
	if err := s.SetDefaultHeader("X", "y"); !goerrors.Is(err,
		errors.ErrServerRunning) {
		t.Errorf("expected ErrServerRunning got %v", err)
	}
	if err := s.SetStatusPage(404, handlers.DefaultStatusPage); !goerrors.Is(err,
		errors.ErrServerRunning) {
		t.Errorf("expected ErrServerRunning got %v", err)
	}
}

func TestCustomStatusPage(t *testing.T) {
	conf := testConfig()
	s, err := New(conf)
	if err != nil {
		t.Fatal(err)
	}
	s.SetStatusPage(http.StatusNotFound, func(code int, req *request.Request,
		resp *response.Response) {
		resp.WithStatus(code).WithText("custom 404 page")
	})
	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	for s.Addr() == nil {
		time.Sleep(5 * time.Millisecond)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.Controller().Shutdown(ctx)
		<-errCh
	})

	resp := roundTrip(t, s.Addr().String(),
		"GET /nope HTTP/1.1\r\nConnection: close\r\n\r\n")
	if !strings.HasPrefix(resp, "HTTP/1.1 404 Not Found") ||
		body(resp) != "custom 404 page" {
		t.Errorf("unexpected response:\n%s", resp)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{errors.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{errors.ErrRequestTimeout, http.StatusRequestTimeout},
		{errors.ErrUnsupportedEncoding, http.StatusNotImplemented},
		{errors.ErrMalformedRequest, http.StatusBadRequest},
		{io.ErrUnexpectedEOF, http.StatusBadRequest},
	}
	for _, tc := range tests {
		if got := statusForError(tc.err); got != tc.expected {
			t.Errorf("%v: expected %d got %d", tc.err, tc.expected, got)
		}
	}
}

func TestSwapperSnapshot(t *testing.T) {
	sn := &Snapshot{Config: config.NewConfig()}
	sw := NewSwapper(sn)
	if sw.Load() != sn {
		t.Error("expected stored snapshot")
	}
	sn2 := sn.clone()
	sw.Store(sn2)
	if sw.Load() != sn2 || sw.Load() == sn {
		t.Error("expected swapped snapshot")
	}
}

func TestNewValidates(t *testing.T) {
	conf := config.NewConfig()
	conf.Frontend.PoolSize = 0
	if _, err := New(conf); !goerrors.Is(err, errors.ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions got %v", err)
	}
	// nil config gets defaults
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Config().Frontend.PoolSize != config.DefaultPoolSize {
		t.Error("expected default pool size")
	}
}
