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

// Package router defines the route table interface used by the server
// runtime. Implementations live in subpackages.
package router

import (
	"github.com/trickstercache/trestle/pkg/handlers"
	"github.com/trickstercache/trestle/pkg/router/route"
)

type Router interface {
	// RegisterRoute registers a handler for the provided path and method(s).
	// The path may contain parameter segments (":name" or ":name(regex)")
	// and a trailing wildcard segment ("*"). If methods is nil, the route
	// is applicable to GET and HEAD requests. The method "*" matches any
	// method not claimed by a more specific registration.
	RegisterRoute(path string, methods []string, opts *route.Options,
		handler handlers.Handler) error
	// Match returns the match for the provided method and path, or nil
	// when no registered route matches. A returned Match with a nil
	// Handler indicates the path is known but the method is not.
	Match(method, path string) *route.Match
	// Routes returns the registered routes in registration order
	Routes() route.Routes
}
