// Package signer produces and verifies the tamper-evident envelopes that
// carry nonces and server tokens across the browser and the OAuth provider.
//
// Wire format: "<plaintext>.<hex-mac>", MAC computed over the plaintext with
// a process-wide secret. Anything that deviates from this shape is invalid;
// callers cannot distinguish "malformed" from "tampered" and must not try.
package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// macHexLen is the length of the hex-encoded HMAC-SHA256 tag.
const macHexLen = sha256.Size * 2

const separator = '.'

// Signer HMAC-signs opaque string values and opens signed envelopes.
type Signer struct {
	secret []byte
}

// New constructs a Signer keyed with the process-wide secret.
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex-encoded HMAC-SHA256 tag over value.
func (s *Signer) Sign(value string) string {
	return hex.EncodeToString(s.mac(value))
}

// Verify recomputes the MAC for value and compares it against the provided
// hex tag in constant time. A tag that is not valid hex never verifies.
func (s *Signer) Verify(value, mac string) bool {
	provided, err := hex.DecodeString(mac)
	if err != nil {
		return false
	}
	return hmac.Equal(provided, s.mac(value))
}

// Envelope returns "value.mac".
func (s *Signer) Envelope(value string) string {
	return value + string(separator) + s.Sign(value)
}

// Open splits a signed envelope at the separator position implied by the
// fixed MAC length, verifies the tag, and returns the plaintext. The second
// return is false on any malformation or MAC mismatch; Open never errors.
// The plaintext itself may contain separators, so the split is positional,
// not a search.
func (s *Signer) Open(signed string) (string, bool) {
	sep := len(signed) - macHexLen - 1
	if sep < 1 || signed[sep] != separator {
		return "", false
	}
	value := signed[:sep]
	if !s.Verify(value, signed[sep+1:]) {
		return "", false
	}
	return value, true
}

func (s *Signer) mac(value string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(value))
	return h.Sum(nil)
}
