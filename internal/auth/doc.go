// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

// Package auth provides account authentication for Pollwise.
//
// # Domain Types
//
// Account records should be created with NewAccount, which validates the
// name, email and password hash. Repository implementations receive
// pre-validated accounts.
//
// # Capabilities
//
// The services in this package never perform I/O themselves. They compose
// capabilities supplied at construction time:
//   - AccountLookup - resolves an account by email
//   - HashComparer - checks a plaintext password against a stored hash
//   - TokenIssuer - derives an access token from an account ID
//   - TokenPersister - records the issued token against the account
//
// # Services
//
//   - Authenticator - credential check and access token issuance
//   - Registrar - account sign-up with email uniqueness
//
// Expected negative outcomes (unknown email, wrong password, empty token,
// email already taken) are reported through a boolean result, never as an
// error. Errors are reserved for collaborator faults.
package auth
