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

// Package sets provides a basic set collection
package sets

import (
	"golang.org/x/exp/maps"
)

// Set is a collection of unique elements
type Set[T comparable] map[T]struct{}

// New creates a new Set from a slice of keys
func New[T comparable](keys []T) Set[T] {
	s := make(Set[T], len(keys))
	for _, key := range keys {
		s[key] = struct{}{}
	}
	return s
}

// NewStringSet returns a new Set[string]
func NewStringSet() Set[string] {
	return make(Set[string])
}

// Add inserts a value into the set
func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

// Remove deletes a value from the set
func (s Set[T]) Remove(val T) {
	delete(s, val)
}

// Contains returns true if the set includes val
func (s Set[T]) Contains(val T) bool {
	_, ok := s[val]
	return ok
}

// Keys returns the set's elements in unspecified order
func (s Set[T]) Keys() []T {
	return maps.Keys(s)
}

// Clone returns a copy of the set
func (s Set[T]) Clone() Set[T] {
	return maps.Clone(s)
}
