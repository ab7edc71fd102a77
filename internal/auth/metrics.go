// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for authentication metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthAttempts counts authentication attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pollwise_auth_attempts_total",
		Help: "Total number of authentication attempts by outcome",
	},
	[]string{"outcome"},
)

// Registrations counts sign-up attempts by outcome.
var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pollwise_registrations_total",
		Help: "Total number of account registrations by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers auth package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(Registrations)
}

func recordAttempt(outcome string) {
	AuthAttempts.WithLabelValues(outcome).Inc()
}

func recordRegistration(outcome string) {
	Registrations.WithLabelValues(outcome).Inc()
}
