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

// package fm represents a simple First Match router: routes are
// evaluated in registration order within each pattern variant, with
// exact routes consulted before parameterized routes and wildcard
// routes consulted last.
package fm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trickstercache/trestle/pkg/errors"
	"github.com/trickstercache/trestle/pkg/handlers"
	meth "github.com/trickstercache/trestle/pkg/methods"
	"github.com/trickstercache/trestle/pkg/router"
	"github.com/trickstercache/trestle/pkg/router/route"
)

var _ router.Router = &fmRouter{}

type segment struct {
	// literal is the segment text; lowercased at registration unless
	// the route is case-sensitive. Empty for capture segments.
	literal string
	// param is the capture name for capture segments
	param string
	// pattern constrains the captured value when present
	pattern *regexp.Regexp
}

type compiledRoute struct {
	route    *route.Route
	methods  map[string]bool
	anyBound bool // registered with the "*" method
	wildcard bool
	segments []segment
}

type fmRouter struct {
	exact    []*compiledRoute
	param    []*compiledRoute
	wildcard []*compiledRoute
	routes   route.Routes
}

func NewRouter() router.Router {
	return &fmRouter{}
}

var defaultMethods = []string{"GET", "HEAD"}

func (rt *fmRouter) RegisterRoute(path string, methods []string,
	opts *route.Options, handler handlers.Handler) error {
	if path == "" || path[0] != '/' {
		return errors.ErrInvalidPath
	}
	if handler == nil {
		return errors.ErrInvalidOptions
	}
	if len(methods) == 0 {
		methods = defaultMethods
	}
	ms := make([]string, len(methods))
	for i, m := range methods {
		if !meth.IsValidMethod(m) {
			return errors.ErrInvalidMethod
		}
		if m != meth.MethodAll {
			m = strings.ToUpper(m)
		}
		ms[i] = m
	}

	var caseSensitive bool
	if opts != nil {
		caseSensitive = opts.CaseSensitive
	}

	cr := &compiledRoute{
		methods: make(map[string]bool, len(ms)),
	}
	for _, m := range ms {
		if m == meth.MethodAll {
			cr.anyBound = true
			continue
		}
		cr.methods[m] = true
	}

	kind, err := cr.compile(path, caseSensitive)
	if err != nil {
		return err
	}

	cr.route = &route.Route{
		Path:          path,
		Methods:       ms,
		Kind:          kind,
		CaseSensitive: caseSensitive,
		Handler:       handler,
	}

	switch kind {
	case route.KindExact:
		rt.exact = append(rt.exact, cr)
	case route.KindParam:
		rt.param = append(rt.param, cr)
	case route.KindWildcard:
		rt.wildcard = append(rt.wildcard, cr)
	}
	rt.routes = append(rt.routes, cr.route)
	return nil
}

// compile parses the path pattern into segments and reports the
// pattern variant
func (cr *compiledRoute) compile(path string, caseSensitive bool) (route.Kind, error) {
	segs := splitPath(path)
	seen := make(map[string]bool, len(segs))
	hasCapture := false
	for i, s := range segs {
		if s == "*" {
			if i != len(segs)-1 {
				return 0, fmt.Errorf("%w: wildcard must be the final segment",
					errors.ErrInvalidPath)
			}
			cr.wildcard = true
			break
		}
		if strings.HasPrefix(s, ":") {
			name, expr, err := parseCapture(s)
			if err != nil {
				return 0, err
			}
			if seen[name] {
				return 0, fmt.Errorf("%w: duplicate parameter %q",
					errors.ErrInvalidRouteParams, name)
			}
			seen[name] = true
			hasCapture = true
			seg := segment{param: name}
			if expr != "" {
				re, err := regexp.Compile("^(?:" + expr + ")$")
				if err != nil {
					return 0, fmt.Errorf("%w: %v", errors.ErrInvalidRouteParams, err)
				}
				seg.pattern = re
			}
			cr.segments = append(cr.segments, seg)
			continue
		}
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		cr.segments = append(cr.segments, segment{literal: s})
	}
	if cr.wildcard {
		return route.KindWildcard, nil
	}
	if hasCapture {
		return route.KindParam, nil
	}
	return route.KindExact, nil
}

// parseCapture splits ":name" or ":name(regex)" into name and regex
func parseCapture(s string) (string, string, error) {
	s = s[1:]
	if i := strings.Index(s, "("); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return "", "", fmt.Errorf("%w: unterminated pattern in %q",
				errors.ErrInvalidRouteParams, s)
		}
		name, expr := s[:i], s[i+1:len(s)-1]
		if name == "" || expr == "" {
			return "", "", fmt.Errorf("%w: empty name or pattern in %q",
				errors.ErrInvalidRouteParams, s)
		}
		return name, expr, nil
	}
	if s == "" {
		return "", "", fmt.Errorf("%w: empty parameter name",
			errors.ErrInvalidRouteParams)
	}
	return s, "", nil
}

func (rt *fmRouter) Match(method, path string) *route.Match {
	method = strings.ToUpper(method)
	segs := splitPath(path)
	folded := make([]string, len(segs))
	for i, s := range segs {
		folded[i] = strings.ToLower(s)
	}

	knownPath := ""
	for _, variant := range [][]*compiledRoute{rt.exact, rt.param, rt.wildcard} {
		// first pass takes routes bound to the request method, second
		// pass admits routes registered with the "*" method
		for _, anyPass := range []bool{false, true} {
			for _, cr := range variant {
				if anyPass {
					if !cr.anyBound {
						continue
					}
				} else if !cr.methods[method] {
					continue
				}
				if params, ok := cr.matchPath(segs, folded); ok {
					return &route.Match{Handler: cr.route.Handler,
						Path: cr.route.Path, Params: params}
				}
			}
		}
		for _, cr := range variant {
			if cr.methods[method] || cr.anyBound {
				continue
			}
			if _, ok := cr.matchPath(segs, folded); ok && knownPath == "" {
				knownPath = cr.route.Path
			}
		}
	}
	if knownPath != "" {
		return &route.Match{Path: knownPath}
	}
	return nil
}

func (cr *compiledRoute) matchPath(segs, folded []string) (map[string]string, bool) {
	if cr.wildcard {
		if len(segs) < len(cr.segments) {
			return nil, false
		}
	} else if len(segs) != len(cr.segments) {
		return nil, false
	}
	var params map[string]string
	for i, s := range cr.segments {
		if s.param != "" {
			v := segs[i]
			if s.pattern != nil && !s.pattern.MatchString(v) {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, len(cr.segments))
			}
			params[s.param] = v
			continue
		}
		probe := folded[i]
		if cr.route.CaseSensitive {
			probe = segs[i]
		}
		if probe != s.literal {
			return nil, false
		}
	}
	if cr.wildcard {
		if params == nil {
			params = make(map[string]string, 1)
		}
		params["*"] = strings.Join(segs[len(cr.segments):], "/")
	}
	return params, true
}

func (rt *fmRouter) Routes() route.Routes {
	return rt.routes
}

// splitPath splits a request path or pattern into its segments, with
// leading and trailing slashes elided; "/" yields no segments
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
