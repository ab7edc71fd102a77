// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"
)

// Route names, used as metric and span labels.
const (
	RouteSignUp    = "signup"
	RouteLogin     = "login"
	RouteAddSurvey = "add_survey"
)

// Routes holds the handler of every API route.
type Routes struct {
	SignUp    Handler
	Login     Handler
	AddSurvey Handler
}

// WithErrorLogging wraps every route with server fault logging to sink.
func (r Routes) WithErrorLogging(sink LogSink, opts ...ErrorLoggingOption) (Routes, error) {
	var out Routes
	for _, bind := range []struct {
		name string
		in   Handler
		out  *Handler
	}{
		{RouteSignUp, r.SignUp, &out.SignUp},
		{RouteLogin, r.Login, &out.Login},
		{RouteAddSurvey, r.AddSurvey, &out.AddSurvey},
	} {
		decorated, err := WithErrorLogging(bind.in, sink, opts...)
		if err != nil {
			return Routes{}, oops.With("route", bind.name).Wrap(err)
		}
		*bind.out = decorated
	}
	return out, nil
}

// NewRouter mounts routes under /api.
func NewRouter(routes Routes, logger *slog.Logger) (http.Handler, error) {
	if routes.SignUp == nil || routes.Login == nil || routes.AddSurvey == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("every route needs a handler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(JSONContentType)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", Adapt(RouteSignUp, routes.SignUp, logger))
		r.Post("/login", Adapt(RouteLogin, routes.Login, logger))
		r.Post("/surveys", Adapt(RouteAddSurvey, routes.AddSurvey, logger))
	})
	return r, nil
}

// JSONContentType sets the default response content type to JSON.
func JSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// CORS allows cross-origin requests from any origin and answers preflights.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
