package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: slot or record does not exist in the store
// - ErrConflict: slot already occupied (e.g. SETNX lost the race)
// - ErrExpired: value outlived its TTL
// - ErrInvalidState: entity in wrong state for the requested operation
//
// For protocol-level failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
)
