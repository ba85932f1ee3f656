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

// Package pprof registers the runtime profiling endpoints on the
// metrics listener's mux
package pprof

import (
	"net/http"
	"net/http/pprof"

	"github.com/trickstercache/trestle/pkg/observability/logging"
	"github.com/trickstercache/trestle/pkg/observability/logging/logger"
)

// RegisterRoutes registers the pprof debugging endpoints to the provided mux
func RegisterRoutes(listenerName string, mux *http.ServeMux) {
	logger.Info("registering pprof /debug routes",
		logging.Pairs{"listenerName": listenerName})
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
