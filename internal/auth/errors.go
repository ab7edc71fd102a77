// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailInUse is returned by repositories when an account with the same
// email already exists.
var ErrEmailInUse = errors.New("email already in use")

// ErrInvalid is wrapped by errors caused by unacceptable caller input, such
// as an over-long name or an empty password.
var ErrInvalid = errors.New("invalid account data")
