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

// Package route defines the route descriptor and match result types
// shared by router implementations.
package route

import "github.com/trickstercache/trestle/pkg/handlers"

// Kind identifies how a route's path pattern matches request paths
type Kind int

const (
	// KindExact routes match the request path literally
	KindExact Kind = iota
	// KindParam routes contain one or more capture segments
	KindParam
	// KindWildcard routes end in a "*" segment matching any remainder
	KindWildcard
)

// Options carries per-route registration options
type Options struct {
	// CaseSensitive requires literal path segments to match exactly;
	// the default folds case during comparison
	CaseSensitive bool
}

// Route describes a registered route
type Route struct {
	// Path is the pattern as registered
	Path string
	// Methods lists the HTTP methods the route serves
	Methods []string
	// Kind is the pattern variant
	Kind Kind
	// CaseSensitive indicates literal segments match exactly
	CaseSensitive bool
	// Handler services requests matched to the route
	Handler handlers.Handler
}

type Routes []*Route

// Match is the result of a route lookup. Params holds captured path
// parameters; the wildcard remainder, when present, is keyed as "*".
// A Match with a nil Handler means a route exists for the path but not
// for the request method. Path is the matched route's registered
// pattern, giving observers a bounded identifier for the request.
type Match struct {
	Handler handlers.Handler
	Path    string
	Params  map[string]string
}
