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

// Package methods provides functionality for handling HTTP methods
package methods

import (
	"net/http"
	"strings"

	"golang.org/x/exp/slices"
)

// MethodAll is the trestle sentinel method matching any request method
const MethodAll = "*"

var allMethods = []string{http.MethodGet, http.MethodHead, http.MethodPost,
	http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	http.MethodConnect, http.MethodTrace}

// AllHTTPMethods returns a list of all known HTTP methods
func AllHTTPMethods() []string {
	return allMethods
}

// IsValidMethod returns true if the provided method is a known HTTP method
// or the MethodAll sentinel
func IsValidMethod(method string) bool {
	if method == MethodAll {
		return true
	}
	return slices.Contains(allMethods, strings.ToUpper(method))
}

// HasBody returns true if the provided method conventionally carries a request body
func HasBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
