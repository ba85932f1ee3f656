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

// Package response provides the mutable response object handlers populate,
// and the serializer that renders it onto the wire.
package response

import (
	"encoding/json"

	"github.com/trickstercache/trestle/pkg/headers"
)

// Response accumulates the status, headers and body a handler produces
// for a single request. The zero status is rendered as 200.
type Response struct {
	// StatusCode is the HTTP status to send; 0 means 200
	StatusCode int
	// Proto is the protocol version on the status line, echoed from the
	// request; empty means HTTP/1.1
	Proto string
	// Headers holds response headers keyed by canonical-ish name as set
	Headers map[string]string
	// Body is the response payload
	Body []byte
	// SuppressBody elides the body from the wire while keeping
	// Content-Length intact (HEAD)
	SuppressBody bool
}

// New returns an empty Response ready for a handler to populate
func New() *Response {
	return &Response{Headers: make(map[string]string, 8)}
}

// WithStatus sets the response status code
func (r *Response) WithStatus(code int) *Response {
	r.StatusCode = code
	return r
}

// WithHeader sets a response header, replacing any prior value
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers[name] = value
	return r
}

// WithBody sets the raw response body
func (r *Response) WithBody(b []byte) *Response {
	r.Body = b
	return r
}

// WithText sets a text/plain body
func (r *Response) WithText(s string) *Response {
	r.Body = []byte(s)
	if _, ok := r.Headers[headers.NameContentType]; !ok {
		r.Headers[headers.NameContentType] = headers.ValueTextPlain
	}
	return r
}

// WithJSON marshals v as the response body with an application/json
// content type
func (r *Response) WithJSON(v interface{}) *Response {
	b, err := json.Marshal(v)
	if err != nil {
		return r
	}
	r.Body = b
	r.Headers[headers.NameContentType] = headers.ValueApplicationJSON
	return r
}

// Header returns the value of the named response header
func (r *Response) Header(name string) string {
	return r.Headers[name]
}

// SetDefaultHeader sets a header only if the handler did not already
// provide one
func (r *Response) SetDefaultHeader(name, value string) {
	if _, ok := r.Headers[name]; !ok {
		r.Headers[name] = value
	}
}
