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

package server

import (
	"sync/atomic"

	"github.com/trickstercache/trestle/pkg/config"
	"github.com/trickstercache/trestle/pkg/handlers"
	"github.com/trickstercache/trestle/pkg/router"
	"github.com/trickstercache/trestle/pkg/static"
)

// Snapshot is the immutable view of server state a request is served
// against. Workers pin one Snapshot per request, so an in-flight
// request never observes a partially applied reload.
type Snapshot struct {
	Config         *config.Config
	Router         router.Router
	Static         *static.Resolver
	DefaultHeaders map[string]string
	StatusPages    *handlers.StatusPages
}

// clone returns a shallow copy suitable for replacing one member
// before publishing
func (sn *Snapshot) clone() *Snapshot {
	c := *sn
	return &c
}

// Swapper atomically publishes Snapshots so the state can be updated
// in-place once associated with a running listener
type Swapper struct {
	v atomic.Value
}

// NewSwapper returns a Swapper holding the provided Snapshot
func NewSwapper(sn *Snapshot) *Swapper {
	s := &Swapper{}
	s.Store(sn)
	return s
}

// Load returns the current Snapshot
func (s *Swapper) Load() *Snapshot {
	sn, _ := s.v.Load().(*Snapshot)
	return sn
}

// Store atomically replaces the current Snapshot
func (s *Swapper) Store(sn *Snapshot) {
	s.v.Store(sn)
}
