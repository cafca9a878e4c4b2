// Package audit emits security-relevant handoff lifecycle events. Events are
// transport-agnostic; sinks fan out (Kafka in production, a recorder in
// tests, a nop when unconfigured).
package audit

import (
	"context"
	"time"
)

// Action names the handoff lifecycle step an event records.
type Action string

const (
	ActionNonceIssued    Action = "nonce_issued"
	ActionRedirectBuilt  Action = "redirect_built"
	ActionCallbackDone   Action = "callback_done"
	ActionNonceRedeemed  Action = "nonce_redeemed"
	ActionRedeemRejected Action = "redeem_rejected"
)

// Event captures one handoff action. UserID is set only once a login
// completed; raw nonces and tokens never appear here.
type Event struct {
	Action    Action    `json:"action"`
	Provider  string    `json:"provider,omitempty"`
	Flow      string    `json:"flow,omitempty"`
	Status    string    `json:"status,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers events to a sink. Emit must not block the request path
// beyond a local enqueue; delivery is best-effort.
type Publisher interface {
	Emit(ctx context.Context, event Event)
	Close()
}

// Nop discards all events. Used when no broker is configured.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
func (Nop) Close()                      {}

var _ Publisher = Nop{}
