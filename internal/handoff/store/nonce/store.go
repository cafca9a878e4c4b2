// Package nonce owns the lifecycle of client nonces: the single-use random
// identifiers that correlate a login attempt across the provider redirect
// round trip.
package nonce

import (
	"context"
	"errors"
	"fmt"
	"time"

	dErrors "relay/pkg/domain-errors"
	"relay/pkg/platform/sentinel"

	"relay/internal/handoff/signer"
	"relay/internal/handoff/store/kv"
	"relay/internal/handoff/store/slot"
)

// keyPrefix is the cache key convention for nonce slots.
const keyPrefix = "client_nonce_"

// nonceBytes of randomness per nonce, hex-encoded before use.
const nonceBytes = 32

// State is a value a nonce slot can hold before a user id is written.
type State string

const (
	// StateCreated marks a nonce that was issued but not yet used for a
	// redirect.
	StateCreated State = "CREATED"
	// StateRedirected marks a nonce a redirect was built from; one-shot
	// guard against reusing the created state twice.
	StateRedirected State = "REDIRECTED"

	// StateAny makes Resolve skip the state equality check. Only redemption
	// passes it: by then the slot should hold a user id, and UserIDOf
	// enforces the sentinel-vs-user distinction one step later. There is no
	// implicit default; every caller states what it expects.
	StateAny State = "*"
)

// isSentinel reports whether a slot value is a reserved state rather than a
// user id.
func isSentinel(value string) bool {
	return value == string(StateCreated) || value == string(StateRedirected)
}

// Store manages nonce slots behind the signed-envelope boundary. Raw nonces
// never leave the package unsigned except to callers that already proved
// possession by resolving an envelope.
type Store struct {
	slots  *slot.Store
	signer *signer.Signer
}

// New constructs a nonce store over the given slot backend. attempts bounds
// the creation retry loop.
func New(backend kv.Store, sig *signer.Signer, ttl time.Duration, attempts int) *Store {
	return &Store{
		slots:  slot.New(backend, keyPrefix, ttl, slot.HexGenerator(nonceBytes), attempts),
		signer: sig,
	}
}

// Create issues a fresh nonce, reserving its slot in state CREATED, and
// returns the signed envelope. Exhausted collision retries fail closed as an
// invalid-nonce error.
func (s *Store) Create(ctx context.Context) (string, error) {
	raw, err := s.slots.Reserve(ctx, string(StateCreated))
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return "", dErrors.New(dErrors.CodeInvalidNonce, "could not allocate nonce")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "nonce reservation failed")
	}
	return s.signer.Envelope(raw), nil
}

// SignedOf re-signs a raw nonce for handing back to a caller after a state
// transition.
func (s *Store) SignedOf(raw string) string {
	return s.signer.Envelope(raw)
}

// Resolve opens a signed nonce and checks the slot against the expected
// state. Equality is exact; StateAny must be passed explicitly to skip the
// check. Invalid envelopes, missing slots, and state mismatches are all the
// same invalid-nonce failure to the caller.
func (s *Store) Resolve(ctx context.Context, signed string, expected State) (string, error) {
	raw, ok := s.signer.Open(signed)
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidNonce, "nonce envelope rejected")
	}
	value, err := s.slots.Read(ctx, raw)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeInvalidNonce, "nonce unknown or expired")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "nonce lookup failed")
	}
	if expected != StateAny && value != string(expected) {
		return "", dErrors.New(dErrors.CodeInvalidNonce, "nonce in unexpected state")
	}
	return raw, nil
}

// MarkRedirected overwrites the slot with REDIRECTED, refreshing its TTL.
func (s *Store) MarkRedirected(ctx context.Context, raw string) error {
	if err := s.slots.Write(ctx, raw, string(StateRedirected)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mark redirected failed")
	}
	return nil
}

// AssignUser writes the user id into the slot. Terminal write; after this the
// nonce is redeemable exactly once.
func (s *Store) AssignUser(ctx context.Context, raw, userID string) error {
	if isSentinel(userID) {
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("user id collides with reserved state %q", userID))
	}
	if err := s.slots.Write(ctx, raw, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "assign user failed")
	}
	return nil
}

// UserIDOf returns the user id stored in the slot. A slot still holding a
// sentinel state means the login never completed, which at redemption time is
// a protocol inconsistency, not a lookup miss.
func (s *Store) UserIDOf(ctx context.Context, raw string) (string, error) {
	value, err := s.slots.Read(ctx, raw)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeInvalidNonce, "nonce unknown or expired")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "nonce lookup failed")
	}
	if isSentinel(value) {
		return "", dErrors.New(dErrors.CodeInternal, "nonce not yet consumed by a login")
	}
	return value, nil
}

// Forget deletes the slot unconditionally. Idempotent.
func (s *Store) Forget(ctx context.Context, raw string) error {
	if err := s.slots.Delete(ctx, raw); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "nonce delete failed")
	}
	return nil
}
