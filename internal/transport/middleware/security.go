package middleware

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/medovate/clinic-backend/internal/domain"
	"github.com/medovate/clinic-backend/internal/service/threat"
	"github.com/medovate/clinic-backend/pkg/ctxutil"
)

// maxInspectBytes caps how much of the request body the threat monitor sees.
const maxInspectBytes = 8 << 10

type threatMonitor interface {
	IsBlocked(sourceID string) bool
	IsThrottled(sourceID string) bool
	OnRequest(ctx context.Context, input threat.RequestInput) ([]*domain.SecurityEvent, error)
}

// Security feeds every request through the threat monitor. Blocked sources
// get 403, throttled sources 429, and a request whose payload trips a
// signature is rejected in the same round trip. Runs after Auth so the
// monitor sees the caller's user and session.
func Security(monitor threatMonitor) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if monitor.IsBlocked(ip) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			if monitor.IsThrottled(ip) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			input := threat.RequestInput{
				SourceID:     ip,
				Endpoint:     r.URL.Path,
				Method:       r.Method,
				SessionToken: ctxutil.SessionTokenFromCtx(r.Context()),
				Payload:      inspectPayload(r),
			}
			if id, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
				input.UserID = &id
			}
			if _, err := monitor.OnRequest(r.Context(), input); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			// A signature match can block the source mid-request.
			if monitor.IsBlocked(ip) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := ctxutil.WithSourceIP(r.Context(), ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP resolves the request source: first X-Forwarded-For hop when
// present, otherwise the peer address without its port.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// inspectPayload collects the query string plus the first maxInspectBytes of
// the body, leaving the body readable for the handler.
func inspectPayload(r *http.Request) string {
	payload := r.URL.RawQuery
	if r.Body == nil || r.Body == http.NoBody {
		return payload
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, maxInspectBytes))
	if err != nil {
		return payload
	}
	rest := r.Body
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), rest), rest}
	if len(head) > 0 {
		if payload != "" {
			payload += "\n"
		}
		payload += string(head)
	}
	return payload
}
