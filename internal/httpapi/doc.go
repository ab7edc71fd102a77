// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package httpapi is the presentation layer of the Pollwise API.
//
// Controllers implement Handler: they receive decoded request data and
// return a Response classified as success, client fault, or server fault.
// Adapt binds a Handler to net/http, and WithErrorLogging wraps any Handler
// so that server faults have their stack trace written to a LogSink.
package httpapi
