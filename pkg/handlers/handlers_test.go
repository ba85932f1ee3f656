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

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
)

func TestStockHandlers(t *testing.T) {
	tests := []struct {
		handler  Handler
		expected int
	}{
		{NotFound, http.StatusNotFound},
		{Forbidden, http.StatusForbidden},
		{InternalServerError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		resp := response.New()
		tc.handler(&request.Request{}, resp)
		if resp.StatusCode != tc.expected {
			t.Errorf("expected %d got %d", tc.expected, resp.StatusCode)
		}
		if len(resp.Body) == 0 {
			t.Error("expected a body")
		}
	}
}

func TestPing(t *testing.T) {
	resp := response.New()
	Ping(&request.Request{}, resp)
	if resp.StatusCode != http.StatusOK || string(resp.Body) != "pong" {
		t.Errorf("unexpected ping response %d %s", resp.StatusCode, string(resp.Body))
	}
}

func TestConfigHandleFunc(t *testing.T) {
	conf := config.NewConfig()
	resp := response.New()
	ConfigHandleFunc(conf)(&request.Request{}, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "frontend:") {
		t.Errorf("expected yaml config dump, got %s", string(resp.Body))
	}

	resp = response.New()
	ConfigHandleFunc(nil)(&request.Request{}, resp)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500 got %d", resp.StatusCode)
	}
}

func TestStatusPages(t *testing.T) {
	sp := NewStatusPages()

	resp := response.New()
	sp.Render(http.StatusBadGateway, &request.Request{}, resp)
	if resp.StatusCode != http.StatusBadGateway ||
		!strings.Contains(string(resp.Body), "502 Bad Gateway") {
		t.Errorf("unexpected fallback page %d %s", resp.StatusCode, string(resp.Body))
	}

	sp.Set(http.StatusNotFound, func(code int, req *request.Request,
		resp *response.Response) {
		resp.WithStatus(code).WithText("custom not found")
	})
	resp = response.New()
	sp.Render(http.StatusNotFound, &request.Request{}, resp)
	if string(resp.Body) != "custom not found" {
		t.Errorf("expected custom page, got %s", string(resp.Body))
	}

	// clones render independently
	clone := sp.Clone()
	clone.Set(http.StatusNotFound, func(code int, req *request.Request,
		resp *response.Response) {
		resp.WithStatus(code).WithText("clone page")
	})
	resp = response.New()
	sp.Render(http.StatusNotFound, &request.Request{}, resp)
	if string(resp.Body) != "custom not found" {
		t.Errorf("clone mutated original, got %s", string(resp.Body))
	}

	// unknown code falls back to generic text
	resp = response.New()
	sp.Render(599, &request.Request{}, resp)
	if !strings.Contains(string(resp.Body), "599") {
		t.Errorf("expected generic page for unknown code, got %s", string(resp.Body))
	}
}
