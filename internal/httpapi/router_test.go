// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pollwise/pollwise/internal/httpapi"
	"github.com/pollwise/pollwise/internal/httpapi/mocks"
	"github.com/pollwise/pollwise/internal/validation"
)

func respondWith(resp httpapi.Response) httpapi.HandlerFunc {
	return func(context.Context, httpapi.Request) httpapi.Response { return resp }
}

func staticRoutes(resp httpapi.Response) httpapi.Routes {
	h := respondWith(resp)
	return httpapi.Routes{SignUp: h, Login: h, AddSurvey: h}
}

func newServer(t *testing.T, routes httpapi.Routes) *httptest.Server {
	t.Helper()
	handler, err := httpapi.NewRouter(routes, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}
	return resp, decoded
}

func TestNewRouter_RequiresEveryRoute(t *testing.T) {
	routes := staticRoutes(httpapi.NoContent())
	routes.Login = nil

	h, err := httpapi.NewRouter(routes, nil)
	require.Error(t, err)
	assert.Nil(t, h)
}

func TestRouter_MountsRoutesUnderAPI(t *testing.T) {
	var seen []string
	track := func(name string) httpapi.HandlerFunc {
		return func(context.Context, httpapi.Request) httpapi.Response {
			seen = append(seen, name)
			return httpapi.NoContent()
		}
	}
	srv := newServer(t, httpapi.Routes{
		SignUp:    track("signup"),
		Login:     track("login"),
		AddSurvey: track("surveys"),
	})

	for _, path := range []string{"/api/signup", "/api/login", "/api/surveys"} {
		resp, _ := post(t, srv, path, `{}`)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, path)
	}
	assert.Equal(t, []string{"signup", "login", "surveys"}, seen)

	resp, err := srv.Client().Get(srv.URL + "/login")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdapt_DecodesJSONBody(t *testing.T) {
	var got validation.Input
	srv := newServer(t, httpapi.Routes{
		SignUp: respondWith(httpapi.NoContent()),
		Login: httpapi.HandlerFunc(func(_ context.Context, req httpapi.Request) httpapi.Response {
			got = req.Body
			return httpapi.OK(httpapi.AccessTokenBody{AccessToken: "any_token"})
		}),
		AddSurvey: respondWith(httpapi.NoContent()),
	})

	resp, body := post(t, srv, "/api/login", `{"email":"any_email@mail.com","password":"any_password"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "any_token", body["accessToken"])
	assert.Equal(t, validation.Input{"email": "any_email@mail.com", "password": "any_password"}, got)
}

func TestAdapt_EmptyBodyIsEmptyInput(t *testing.T) {
	var got validation.Input
	h := httpapi.HandlerFunc(func(_ context.Context, req httpapi.Request) httpapi.Response {
		got = req.Body
		return httpapi.NoContent()
	})
	srv := newServer(t, httpapi.Routes{SignUp: h, Login: h, AddSurvey: h})

	resp, _ := post(t, srv, "/api/surveys", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAdapt_InvalidJSON(t *testing.T) {
	h := httpapi.HandlerFunc(func(context.Context, httpapi.Request) httpapi.Response {
		t.Error("handler must not run on invalid JSON")
		return httpapi.NoContent()
	})
	srv := newServer(t, httpapi.Routes{SignUp: h, Login: h, AddSurvey: h})

	resp, body := post(t, srv, "/api/login", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, httpapi.ErrInvalidJSON.Error(), body["error"])
}

func TestAdapt_ErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		resp   httpapi.Response
		status int
		want   string
	}{
		{
			name:   "bad request carries the validation message",
			resp:   httpapi.BadRequest(&validation.FieldError{Field: "email", Cause: validation.CauseMissing}),
			status: http.StatusBadRequest,
			want:   "Missing param: email",
		},
		{
			name:   "unauthorized",
			resp:   httpapi.Unauthorized(),
			status: http.StatusUnauthorized,
			want:   "Unauthorized",
		},
		{
			name:   "forbidden",
			resp:   httpapi.Forbidden(httpapi.ErrEmailInUse),
			status: http.StatusForbidden,
			want:   "The received email is already in use",
		},
		{
			name:   "server fault hides the cause",
			resp:   httpapi.ServerError(errors.New("password for db is hunter2")),
			status: http.StatusInternalServerError,
			want:   "Internal server error",
		},
		{
			name:   "nil server fault body",
			resp:   httpapi.Response{StatusCode: http.StatusInternalServerError, Body: (*httpapi.ServerFault)(nil)},
			status: http.StatusInternalServerError,
			want:   "Internal server error",
		},
		{
			name:   "non-error body falls back to status text",
			resp:   httpapi.Response{StatusCode: http.StatusConflict, Body: "conflict"},
			status: http.StatusConflict,
			want:   http.StatusText(http.StatusConflict),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, staticRoutes(tt.resp))
			resp, body := post(t, srv, "/api/signup", `{}`)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, map[string]any{"error": tt.want}, body)
		})
	}
}

func TestAdapt_CountsResponsesByClass(t *testing.T) {
	srv := newServer(t, httpapi.Routes{
		SignUp:    respondWith(httpapi.ServerError(errors.New("boom"))),
		Login:     respondWith(httpapi.Unauthorized()),
		AddSurvey: respondWith(httpapi.NoContent()),
	})

	server := httpapi.Responses.WithLabelValues(httpapi.RouteSignUp, "server_fault")
	client := httpapi.Responses.WithLabelValues(httpapi.RouteLogin, "client_fault")
	success := httpapi.Responses.WithLabelValues(httpapi.RouteAddSurvey, "success")
	beforeServer := testutil.ToFloat64(server)
	beforeClient := testutil.ToFloat64(client)
	beforeSuccess := testutil.ToFloat64(success)

	post(t, srv, "/api/signup", `{}`)
	post(t, srv, "/api/login", `{}`)
	post(t, srv, "/api/surveys", `{}`)

	assert.InDelta(t, beforeServer+1, testutil.ToFloat64(server), 0)
	assert.InDelta(t, beforeClient+1, testutil.ToFloat64(client), 0)
	assert.InDelta(t, beforeSuccess+1, testutil.ToFloat64(success), 0)
}

func TestCORS(t *testing.T) {
	srv := newServer(t, staticRoutes(httpapi.NoContent()))

	t.Run("preflight is answered without reaching the route", func(t *testing.T) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/api/login", nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Headers"))
	})

	t.Run("regular responses allow any origin", func(t *testing.T) {
		resp, _ := post(t, srv, "/api/login", `{}`)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestRoutes_WithErrorLogging(t *testing.T) {
	t.Run("requires a sink", func(t *testing.T) {
		_, err := staticRoutes(httpapi.NoContent()).WithErrorLogging(nil)
		require.Error(t, err)
	})

	t.Run("requires every handler", func(t *testing.T) {
		routes := staticRoutes(httpapi.NoContent())
		routes.AddSurvey = nil
		_, err := routes.WithErrorLogging(mocks.NewMockLogSink(t))
		require.Error(t, err)
	})

	t.Run("server faults on every route reach the sink", func(t *testing.T) {
		sink := mocks.NewMockLogSink(t)
		fault := httpapi.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       &httpapi.ServerFault{Stack: "any_stack"},
		}
		sink.On("LogError", mock.Anything, "any_stack").Return(nil).Times(3)

		routes, err := staticRoutes(fault).WithErrorLogging(sink)
		require.NoError(t, err)
		srv := newServer(t, routes)

		for _, path := range []string{"/api/signup", "/api/login", "/api/surveys"} {
			resp, body := post(t, srv, path, `{}`)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "Internal server error", body["error"])
		}
	})
}
