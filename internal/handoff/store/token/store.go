// Package token owns the lifecycle of server tokens: short-lived random
// identifiers round-tripped through the OAuth provider's "state" parameter,
// each bound to exactly one client nonce. They exist only for the stateless
// flow, letting the callback recover which nonce initiated it without any
// provider-side session.
package token

import (
	"context"
	"errors"
	"time"

	dErrors "relay/pkg/domain-errors"
	"relay/pkg/platform/sentinel"

	"relay/internal/handoff/signer"
	"relay/internal/handoff/store/kv"
	"relay/internal/handoff/store/slot"
)

// keyPrefix is the cache key convention for server-token slots.
const keyPrefix = "server_token_"

// tokenBytes of randomness per token (256 bits), hex-encoded. At this size no
// collision-retry loop is required; reservation is still a defensive SETNX.
const tokenBytes = 32

// Store manages server-token slots. The slot value is the raw nonce the
// token is bound to; deleting a token never deletes its nonce.
type Store struct {
	slots  *slot.Store
	signer *signer.Signer
}

// New constructs a token store over the given slot backend.
func New(backend kv.Store, sig *signer.Signer, ttl time.Duration) *Store {
	return &Store{
		slots:  slot.New(backend, keyPrefix, ttl, slot.HexGenerator(tokenBytes), 1),
		signer: sig,
	}
}

// Create issues a token bound to rawNonce and returns the signed envelope.
func (s *Store) Create(ctx context.Context, rawNonce string) (string, error) {
	raw, err := s.slots.Reserve(ctx, rawNonce)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return "", dErrors.New(dErrors.CodeInvalidToken, "could not allocate token")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "token reservation failed")
	}
	return s.signer.Envelope(raw), nil
}

// SignedOf re-signs a raw token.
func (s *Store) SignedOf(raw string) string {
	return s.signer.Envelope(raw)
}

// NonceOf returns the raw nonce a signed token is bound to. An invalid
// envelope or a missing slot is not an error, just "no bound nonce": the
// stateful flow legitimately arrives here with no token at all. The error
// return is reserved for infrastructure failures.
func (s *Store) NonceOf(ctx context.Context, signedToken string) (string, bool, error) {
	raw, ok := s.signer.Open(signedToken)
	if !ok {
		return "", false, nil
	}
	value, err := s.slots.Read(ctx, raw)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", false, nil
		}
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "token lookup failed")
	}
	return value, true, nil
}

// Forget deletes the token slot and reports whether it existed. Unlike
// NonceOf, a token that fails to open here is an invalid-token error: the
// caller asserted it holds a real token.
func (s *Store) Forget(ctx context.Context, signedToken string) (bool, error) {
	raw, ok := s.signer.Open(signedToken)
	if !ok {
		return false, dErrors.New(dErrors.CodeInvalidToken, "token envelope rejected")
	}
	_, err := s.slots.Read(ctx, raw)
	existed := err == nil
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "token lookup failed")
	}
	if err := s.slots.Delete(ctx, raw); err != nil {
		return existed, dErrors.Wrap(err, dErrors.CodeInternal, "token delete failed")
	}
	return existed, nil
}
