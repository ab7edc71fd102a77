// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package httpapi

import "errors"

// Client-facing errors. Their messages are sent as the response body.
var (
	ErrUnauthorized = errors.New("Unauthorized")                         //nolint:staticcheck // sent to clients verbatim
	ErrEmailInUse   = errors.New("The received email is already in use") //nolint:staticcheck // sent to clients verbatim
	ErrInvalidJSON  = errors.New("Invalid JSON body")                    //nolint:staticcheck // sent to clients verbatim
)
