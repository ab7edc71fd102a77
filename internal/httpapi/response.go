// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/samber/oops"

	"github.com/pollwise/pollwise/internal/validation"
)

// Class groups responses by who is at fault.
type Class int

// Response classes.
const (
	ClassSuccess Class = iota
	ClassClientFault
	ClassServerFault
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassClientFault:
		return "client_fault"
	case ClassServerFault:
		return "server_fault"
	default:
		return "unknown"
	}
}

// Request is the transport-independent input of a Handler.
type Request struct {
	Body validation.Input
}

// Response is the transport-independent result of a Handler.
type Response struct {
	StatusCode int
	Body       any
}

// Class reports the response class. Status codes of 500 and above are
// server faults, 400 to 499 client faults, everything else success.
func (r Response) Class() Class {
	switch {
	case r.StatusCode >= http.StatusInternalServerError:
		return ClassServerFault
	case r.StatusCode >= http.StatusBadRequest:
		return ClassClientFault
	default:
		return ClassSuccess
	}
}

// ServerFault is the body of a server error response. Cause and Stack are
// for operators only and are never sent to the client.
type ServerFault struct {
	Cause error
	Stack string
}

func (f *ServerFault) Error() string {
	return "Internal server error"
}

func (f *ServerFault) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Cause
}

// OK returns a 200 response carrying body.
func OK(body any) Response {
	return Response{StatusCode: http.StatusOK, Body: body}
}

// NoContent returns a 204 response.
func NoContent() Response {
	return Response{StatusCode: http.StatusNoContent}
}

// BadRequest returns a 400 response carrying err.
func BadRequest(err error) Response {
	return Response{StatusCode: http.StatusBadRequest, Body: err}
}

// Unauthorized returns a 401 response.
func Unauthorized() Response {
	return Response{StatusCode: http.StatusUnauthorized, Body: ErrUnauthorized}
}

// Forbidden returns a 403 response carrying err.
func Forbidden(err error) Response {
	return Response{StatusCode: http.StatusForbidden, Body: err}
}

// ServerError returns a 500 response whose body records err and its stack
// trace. Errors without an oops stack are wrapped to capture one here.
func ServerError(err error) Response {
	if err == nil {
		err = oops.Code("SERVER_ERROR").Errorf("server error without cause")
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		err = oops.Code("SERVER_ERROR").Wrap(err)
		oopsErr, _ = oops.AsOops(err)
	}
	return Response{
		StatusCode: http.StatusInternalServerError,
		Body:       &ServerFault{Cause: err, Stack: oopsErr.Stacktrace()},
	}
}

// Handler handles one decoded request.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) Response

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}
