// Package requestmeta stamps every request's context with a request id, a
// request-scoped time, and client metadata. All operations within a single
// request observe the same "now", keeping audit timestamps and mirror-expiry
// checks consistent.
package requestmeta

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"relay/pkg/requestcontext"
)

// Middleware captures request metadata at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
		ctx = requestcontext.WithClientMetadata(ctx, clientIP(r), r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
