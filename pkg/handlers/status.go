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
	"fmt"
	"net/http"

	"github.com/trickstercache/trestle/pkg/request"
	"github.com/trickstercache/trestle/pkg/response"
)

// StatusPageFunc generates the response body for an error status code.
// Registered generators let embedders brand their error pages.
type StatusPageFunc func(code int, req *request.Request, resp *response.Response)

// StatusPages maps status codes to page generators, with a fallback
// used for codes that have no specific generator registered.
type StatusPages struct {
	pages    map[int]StatusPageFunc
	fallback StatusPageFunc
}

// NewStatusPages returns a StatusPages with the plain-text default
// generator as its fallback
func NewStatusPages() *StatusPages {
	return &StatusPages{
		pages:    make(map[int]StatusPageFunc),
		fallback: DefaultStatusPage,
	}
}

// Set registers a generator for a specific status code
func (s *StatusPages) Set(code int, f StatusPageFunc) {
	s.pages[code] = f
}

// SetFallback replaces the generator used for unregistered codes
func (s *StatusPages) SetFallback(f StatusPageFunc) {
	if f != nil {
		s.fallback = f
	}
}

// Render populates resp as the error page for code
func (s *StatusPages) Render(code int, req *request.Request, resp *response.Response) {
	if s != nil {
		if f, ok := s.pages[code]; ok {
			f(code, req, resp)
			return
		}
		if s.fallback != nil {
			s.fallback(code, req, resp)
			return
		}
	}
	DefaultStatusPage(code, req, resp)
}

// Clone returns a copy safe to mutate independently of the original
func (s *StatusPages) Clone() *StatusPages {
	c := NewStatusPages()
	c.fallback = s.fallback
	for code, f := range s.pages {
		c.pages[code] = f
	}
	return c
}

// DefaultStatusPage writes a minimal plain-text error page
func DefaultStatusPage(code int, req *request.Request, resp *response.Response) {
	text := http.StatusText(code)
	if text == "" {
		text = "Status"
	}
	resp.WithStatus(code).WithText(fmt.Sprintf("%d %s\n", code, text))
}
