// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pollwise Contributors

package auth

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Access token configuration.
const (
	DefaultTokenTTL  = 24 * time.Hour
	MinJWTSecretSize = 32 // bytes, matches the HS256 output size
	tokenIssuerName  = "pollwise"
)

// TokenIssuer derives an opaque access token from an account ID.
// An empty token with a nil error means no token could be issued.
type TokenIssuer interface {
	Issue(ctx context.Context, accountID ulid.ULID) (string, error)
}

// JWTIssuer issues HS256-signed JWT access tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTIssuer creates a JWTIssuer. A zero ttl selects DefaultTokenTTL.
func NewJWTIssuer(secret []byte, ttl time.Duration) (*JWTIssuer, error) {
	if len(secret) < MinJWTSecretSize {
		return nil, oops.Code("AUTH_WEAK_SECRET").
			With("min_bytes", MinJWTSecretSize).
			Errorf("jwt secret must be at least %d bytes", MinJWTSecretSize)
	}
	if ttl < 0 {
		return nil, oops.Code("AUTH_INVALID_TTL").With("ttl", ttl).Errorf("token ttl cannot be negative")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token whose subject is the account ID.
func (i *JWTIssuer) Issue(_ context.Context, accountID ulid.ULID) (string, error) {
	if accountID.Compare(ulid.ULID{}) == 0 {
		return "", oops.Code("AUTH_TOKEN_INVALID_SUBJECT").Errorf("account ID cannot be zero")
	}

	now := i.now()
	claims := jwtlib.RegisteredClaims{
		Issuer:    tokenIssuerName,
		Subject:   accountID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(i.ttl)),
		ID:        ulid.Make().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").
			With("account_id", accountID.String()).
			Wrap(err)
	}
	return signed, nil
}

// Parse validates a token issued by this issuer and returns its account ID.
// No request route consumes access tokens yet; Parse is how callers verify
// what Issue produced.
func (i *JWTIssuer) Parse(token string) (ulid.ULID, error) {
	claims := &jwtlib.RegisteredClaims{}
	_, err := jwtlib.ParseWithClaims(token, claims, func(_ *jwtlib.Token) (any, error) {
		return i.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(tokenIssuerName),
		jwtlib.WithTimeFunc(i.now),
	)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").Wrap(err)
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code("AUTH_TOKEN_INVALID").
			With("subject", claims.Subject).
			Wrap(err)
	}
	return id, nil
}
