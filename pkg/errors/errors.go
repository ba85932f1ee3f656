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

// Package errors provides the sentinel errors shared across trestle packages
package errors

import "errors"

// ErrMalformedRequest is an error for when a client request cannot be framed
var ErrMalformedRequest = errors.New("malformed request")

// ErrPayloadTooLarge is an error for when a client request exceeds the
// configured read limit
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrRequestTimeout is an error for when a client request did not arrive
// within the configured read timeout
var ErrRequestTimeout = errors.New("request timeout")

// ErrUnsupportedEncoding is an error for request framings trestle does not
// implement, such as chunked transfer encoding
var ErrUnsupportedEncoding = errors.New("unsupported transfer encoding")

// ErrNotFound is an error for when no route or static file matches a request
var ErrNotFound = errors.New("not found")

// ErrForbidden is an error for static file requests that escape the
// configured root or are excluded by the allow/deny lists
var ErrForbidden = errors.New("forbidden")

// ErrInvalidPath is an error for when a route registration's path is invalid
var ErrInvalidPath = errors.New("invalid path value in route")

// ErrInvalidMethod is an error for when a route registration's method is invalid
var ErrInvalidMethod = errors.New("invalid method value in route")

// ErrInvalidRouteParams is an error for when a route pattern's parameter
// segments are invalid (empty names, duplicate names, or bad expressions)
var ErrInvalidRouteParams = errors.New("invalid parameter segments in route")

// ErrInvalidOptions is an error for when a configuration is invalid
var ErrInvalidOptions = errors.New("invalid options")

// ErrServerClosed is returned by the listen entry point after a graceful
// shutdown completes
var ErrServerClosed = errors.New("server closed")

// ErrServerRunning is an error for operations that require a stopped server
var ErrServerRunning = errors.New("server already running")

// ErrNilListener is an error for a nil listener when a non-nil listener was expected
var ErrNilListener = errors.New("nil listener")

// ErrQueueFull is an error for when the connection work queue is saturated
var ErrQueueFull = errors.New("work queue full")

// ErrNotReloaded is an error for when a reload request was declined because
// the configuration is not stale or the rate limit has not elapsed
var ErrNotReloaded = errors.New("configuration NOT reloaded")
