// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Responses counts handler responses by route and class.
// Use RegisterMetrics to register this with a Prometheus registry.
var Responses = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pollwise_http_responses_total",
		Help: "Total number of API responses by route and class",
	},
	[]string{"route", "class"},
)

// ErrorLogFailures counts server faults whose stack trace could not be
// written to the error log sink.
var ErrorLogFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "pollwise_error_log_failures_total",
		Help: "Total number of failed writes to the error log sink",
	},
)

// RegisterMetrics registers httpapi metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Responses)
	reg.MustRegister(ErrorLogFailures)
}
