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

// Package metrics implements prometheus metrics and exposes the metrics HTTP listener
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trickstercache/trestle/pkg/observability/pprof"
)

const (
	metricNamespace   = "trestle"
	configSubsystem   = "config"
	frontendSubsystem = "frontend"
	workerSubsystem   = "worker"
)

// Default histogram buckets used by trestle
var (
	defaultBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 20}
)

// LastReloadSuccessful gauge will be set to 1 if trestle's last snapshot reload succeeded else 0
var LastReloadSuccessful prometheus.Gauge

// LastReloadSuccessfulTimestamp gauge is the epoch time of the most recent successful snapshot load
var LastReloadSuccessfulTimestamp prometheus.Gauge

// FrontendRequestStatus is a Counter of front end requests that have been processed with their status
var FrontendRequestStatus *prometheus.CounterVec

// FrontendRequestDuration is a histogram that tracks the time it takes to process a request
var FrontendRequestDuration *prometheus.HistogramVec

// FrontendRequestWrittenBytes is a Counter of bytes written for front end requests
var FrontendRequestWrittenBytes *prometheus.CounterVec

// FrontendMaxConnections is a Gauge representing the max number of active concurrent connections in the server
var FrontendMaxConnections prometheus.Gauge

// FrontendActiveConnections is a Gauge representing the number of active connections in the server
var FrontendActiveConnections prometheus.Gauge

// FrontendConnectionRequested is a counter representing the total number of connections requested by clients
var FrontendConnectionRequested prometheus.Counter

// FrontendConnectionAccepted is a counter representing the total number of connections accepted by the server
var FrontendConnectionAccepted prometheus.Counter

// FrontendConnectionClosed is a counter representing the total number of connections closed by the server
var FrontendConnectionClosed prometheus.Counter

// FrontendConnectionFailed is a counter for the total number of connections that failed for whatever reason
var FrontendConnectionFailed prometheus.Counter

// FrontendConnectionRejected is a counter for connections shed because the work queue was saturated
var FrontendConnectionRejected prometheus.Counter

// WorkerPanicsRecovered is a counter of handler panics recovered by the worker pool
var WorkerPanicsRecovered prometheus.Counter

func init() {

	LastReloadSuccessfulTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_success_time_seconds",
			Help:      "Timestamp of the last successful snapshot reload.",
		},
	)

	LastReloadSuccessful = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: configSubsystem,
			Name:      "last_reload_successful",
			Help:      "Whether the last snapshot reload attempt was successful.",
		},
	)

	FrontendRequestStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_total",
			Help:      "Count of front end requests handled by trestle",
		},
		[]string{"method", "path", "http_status"},
	)

	FrontendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requests_duration_seconds",
			Help:      "Histogram of front end request durations handled by trestle",
			Buckets:   defaultBuckets,
		},
		[]string{"method", "path", "http_status"},
	)

	FrontendRequestWrittenBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "written_bytes_total",
			Help:      "Count of bytes written in front end requests handled by trestle",
		},
		[]string{"method", "path", "http_status"})

	FrontendMaxConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "max_connections",
			Help:      "trestle max number of active connections.",
		},
	)

	FrontendActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "active_connections",
			Help:      "trestle number of active connections.",
		},
	)

	FrontendConnectionRequested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "requested_connections_total",
			Help:      "trestle total number of connections requested by clients.",
		},
	)

	FrontendConnectionAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "accepted_connections_total",
			Help:      "trestle total number of accepted connections.",
		},
	)

	FrontendConnectionClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "closed_connections_total",
			Help:      "trestle total number of closed connections.",
		},
	)

	FrontendConnectionFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "failed_connections_total",
			Help:      "trestle total number of failed connections.",
		},
	)

	FrontendConnectionRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: frontendSubsystem,
			Name:      "rejected_connections_total",
			Help:      "trestle total number of connections rejected due to work queue saturation.",
		},
	)

	WorkerPanicsRecovered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Subsystem: workerSubsystem,
			Name:      "panics_recovered_total",
			Help:      "trestle total number of handler panics recovered by the worker pool.",
		},
	)

	// Register Metrics
	prometheus.MustRegister(LastReloadSuccessfulTimestamp)
	prometheus.MustRegister(LastReloadSuccessful)
	prometheus.MustRegister(FrontendRequestStatus)
	prometheus.MustRegister(FrontendRequestDuration)
	prometheus.MustRegister(FrontendRequestWrittenBytes)
	prometheus.MustRegister(FrontendMaxConnections)
	prometheus.MustRegister(FrontendActiveConnections)
	prometheus.MustRegister(FrontendConnectionRequested)
	prometheus.MustRegister(FrontendConnectionAccepted)
	prometheus.MustRegister(FrontendConnectionClosed)
	prometheus.MustRegister(FrontendConnectionFailed)
	prometheus.MustRegister(FrontendConnectionRejected)
	prometheus.MustRegister(WorkerPanicsRecovered)
}

// Handler returns the HTTP handler that renders the prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

// ListenAndServe serves the metrics and pprof endpoints on the provided
// address and port; it blocks and is intended to run in a goroutine
// alongside the main listener
func ListenAndServe(address string, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	pprof.RegisterRoutes("metrics", mux)
	return http.ListenAndServe(fmt.Sprintf("%s:%d", address, port), mux)
}
