package testutil

import (
	"net/http"
	"time"

	"relay/pkg/requestcontext"
)

// AtTime pins the request-scoped clock, the way the request-metadata
// middleware would at request start. Lets tests drive TTL checks without
// sleeping.
func AtTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithOAuthCode injects a provider authorization code, simulating what the
// callback handler extracts from the query string.
func WithOAuthCode(req *http.Request, code string) *http.Request {
	return req.WithContext(requestcontext.WithOAuthCode(req.Context(), code))
}
