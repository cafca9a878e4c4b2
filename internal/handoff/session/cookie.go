package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"relay/pkg/requestcontext"
)

// Session value keys. Two fields, mirroring the nonce and the instant it was
// stored.
const (
	valueKeyNonce = "handoff_nonce"
	valueKeySetAt = "handoff_nonce_set_at"
)

// CookieMirror binds the mirror to one browser via a signed session cookie.
// One instance serves one request; handlers construct it per call.
type CookieMirror struct {
	store sessions.Store
	name  string
	ttl   time.Duration
	w     http.ResponseWriter
	r     *http.Request
}

// NewCookieStore builds the gorilla cookie store backing all mirrors.
func NewCookieStore(secret string) sessions.Store {
	return sessions.NewCookieStore([]byte(secret))
}

// NewCookieMirror constructs the mirror for a single request/response pair.
func NewCookieMirror(store sessions.Store, name string, ttl time.Duration, w http.ResponseWriter, r *http.Request) *CookieMirror {
	return &CookieMirror{store: store, name: name, ttl: ttl, w: w, r: r}
}

func (m *CookieMirror) Set(ctx context.Context, signedNonce string) error {
	sess, _ := m.store.Get(m.r, m.name)
	sess.Values[valueKeyNonce] = signedNonce
	sess.Values[valueKeySetAt] = requestcontext.Now(ctx).Unix()
	if err := sess.Save(m.r, m.w); err != nil {
		return fmt.Errorf("save session mirror: %w", err)
	}
	return nil
}

func (m *CookieMirror) Get(ctx context.Context) (string, bool) {
	sess, _ := m.store.Get(m.r, m.name)
	nonce, setAt, ok := m.read(sess)
	if !ok || !m.fresh(ctx, setAt) {
		// Drop stale fields before reporting absence.
		delete(sess.Values, valueKeyNonce)
		delete(sess.Values, valueKeySetAt)
		_ = sess.Save(m.r, m.w)
		return "", false
	}
	return nonce, true
}

func (m *CookieMirror) IsValid(ctx context.Context) bool {
	sess, _ := m.store.Get(m.r, m.name)
	_, setAt, ok := m.read(sess)
	return ok && m.fresh(ctx, setAt)
}

func (m *CookieMirror) Clear(_ context.Context) error {
	sess, _ := m.store.Get(m.r, m.name)
	delete(sess.Values, valueKeyNonce)
	delete(sess.Values, valueKeySetAt)
	if err := sess.Save(m.r, m.w); err != nil {
		return fmt.Errorf("save session mirror: %w", err)
	}
	return nil
}

func (m *CookieMirror) read(sess *sessions.Session) (nonce string, setAt int64, ok bool) {
	nonce, nok := sess.Values[valueKeyNonce].(string)
	setAt, tok := sess.Values[valueKeySetAt].(int64)
	if !nok || !tok || nonce == "" {
		return "", 0, false
	}
	return nonce, setAt, true
}

func (m *CookieMirror) fresh(ctx context.Context, setAt int64) bool {
	return requestcontext.Now(ctx).Sub(time.Unix(setAt, 0)) <= m.ttl
}

var _ Mirror = (*CookieMirror)(nil)
