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

// Package request provides the trestle client request representation and the
// Framer that produces it from a connection byte stream
package request

import (
	"net/url"
	"strings"
)

// Request represents a single framed client request. A Request is owned
// exclusively by the worker serving its connection and is discarded once the
// handler returns.
type Request struct {
	// ID is a unique identifier assigned at framing time, used in log events
	ID string
	// Method is the request method, upper-cased
	Method string
	// Path is the request path with any query string removed
	Path string
	// Proto is the protocol declared on the request line, e.g. HTTP/1.1
	Proto string
	// Headers maps lower-cased header names to values; for repeated headers
	// the last value wins
	Headers map[string]string
	// Query holds the parsed query string, when one was present
	Query url.Values
	// Body is the request body as bounded by the configured read limit
	Body []byte
	// RemoteAddr is the client address, when available
	RemoteAddr string
	// Params holds path parameters extracted by the router
	Params map[string]string
	// KeepAlive indicates whether the connection persists after the response
	KeepAlive bool
}

// Header returns the value of the named header; name matching is
// case-insensitive
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[strings.ToLower(name)]
	return v, ok
}

// Param returns the named path parameter extracted by the router, or an
// empty string when absent
func (r *Request) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}
