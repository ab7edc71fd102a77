// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pollwise/pollwise/internal/validation"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

const tracerName = "github.com/pollwise/pollwise/internal/httpapi"

// ErrorBody is the body of every non-success response.
type ErrorBody struct {
	Error string `json:"error"`
}

// Adapt binds h to net/http under the given route name. The JSON request
// body is decoded into Request.Body; success bodies are encoded as JSON and
// every other response as ErrorBody.
func Adapt(route string, h Handler, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	tracer := otel.Tracer(tracerName)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "httpapi."+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.route", route)),
		)
		defer span.End()

		body, err := decodeBody(w, r)
		var resp Response
		if err != nil {
			resp = BadRequest(ErrInvalidJSON)
		} else {
			resp = h.Handle(ctx, Request{Body: body})
		}

		class := resp.Class()
		Responses.WithLabelValues(route, class.String()).Inc()
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if class == ClassServerFault {
			span.SetStatus(codes.Error, "server fault")
			var fault *ServerFault
			if bodyErr, ok := resp.Body.(error); ok && errors.As(bodyErr, &fault) && fault != nil && fault.Cause != nil {
				span.RecordError(fault.Cause)
			}
		}

		logger.DebugContext(ctx, "request handled",
			"route", route,
			"status", resp.StatusCode,
			"class", class.String(),
		)
		writeResponse(w, resp, logger)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request) (validation.Input, error) {
	body := validation.Input{}
	if r.Body == nil {
		return body, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return validation.Input{}, nil
		}
		return nil, err //nolint:wrapcheck // mapped to a 400 by the caller
	}
	if body == nil {
		body = validation.Input{}
	}
	return body, nil
}

func writeResponse(w http.ResponseWriter, resp Response, logger *slog.Logger) {
	if resp.StatusCode == http.StatusNoContent {
		w.WriteHeader(resp.StatusCode)
		return
	}

	var payload any = resp.Body
	if resp.Class() != ClassSuccess {
		payload = ErrorBody{Error: errorMessage(resp)}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("failed to write response body", "status", resp.StatusCode, "error", err)
	}
}

// errorMessage returns the client-facing message of a non-success response.
// Server faults never expose their cause.
func errorMessage(resp Response) string {
	if resp.Class() == ClassServerFault {
		return (&ServerFault{}).Error()
	}
	if err, ok := resp.Body.(error); ok {
		return err.Error()
	}
	return http.StatusText(resp.StatusCode)
}
