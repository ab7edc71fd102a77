// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/pollwise/pollwise/pkg/errutil"
)

// DefaultSinkTimeout bounds a single LogSink write.
const DefaultSinkTimeout = 2 * time.Second

// LogSink stores the stack trace of a server fault.
type LogSink interface {
	LogError(ctx context.Context, stack string) error
}

// ErrorLogging wraps a Handler and writes the stack trace of every server
// fault it returns to a LogSink. The wrapped handler's response is returned
// unchanged whether or not the write succeeds.
type ErrorLogging struct {
	next    Handler
	sink    LogSink
	logger  *slog.Logger
	timeout time.Duration
}

// ErrorLoggingOption configures an ErrorLogging decorator.
type ErrorLoggingOption func(*ErrorLogging)

// WithLogger sets the logger that receives sink failures.
func WithLogger(logger *slog.Logger) ErrorLoggingOption {
	return func(d *ErrorLogging) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSinkTimeout bounds each sink write. Non-positive values are ignored.
func WithSinkTimeout(timeout time.Duration) ErrorLoggingOption {
	return func(d *ErrorLogging) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithErrorLogging decorates next with server fault logging to sink.
func WithErrorLogging(next Handler, sink LogSink, opts ...ErrorLoggingOption) (*ErrorLogging, error) {
	if next == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("handler is required")
	}
	if sink == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("log sink is required")
	}
	d := &ErrorLogging{
		next:    next,
		sink:    sink,
		logger:  slog.Default(),
		timeout: DefaultSinkTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Handle calls the wrapped handler and logs server faults.
func (d *ErrorLogging) Handle(ctx context.Context, req Request) Response {
	resp := d.next.Handle(ctx, req)
	if resp.Class() == ClassServerFault {
		d.record(ctx, stackOf(resp))
	}
	return resp
}

func (d *ErrorLogging) record(ctx context.Context, stack string) {
	defer func() {
		if r := recover(); r != nil {
			ErrorLogFailures.Inc()
			d.logger.ErrorContext(ctx, "error log sink panicked", "panic", fmt.Sprint(r))
		}
	}()

	// The sink write outlives a cancelled request but not the timeout.
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.sink.LogError(sinkCtx, stack); err != nil {
		ErrorLogFailures.Inc()
		errutil.LogErrorContext(ctx, d.logger, "error log sink failed", err)
	}
}

// stackOf extracts the diagnostic trace carried by a server fault response.
func stackOf(resp Response) string {
	var fault *ServerFault
	if err, ok := resp.Body.(error); ok && errors.As(err, &fault) && fault != nil {
		return fault.Stack
	}
	if err, ok := resp.Body.(error); ok {
		if oopsErr, ok := oops.AsOops(err); ok {
			return oopsErr.Stacktrace()
		}
		return err.Error()
	}
	return fmt.Sprintf("status %d: %v", resp.StatusCode, resp.Body)
}
