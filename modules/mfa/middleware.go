package mfa

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/skillbridge/stepup/core"
	"github.com/skillbridge/stepup/pkg/identity"
	"github.com/skillbridge/stepup/pkg/throttle"
)

// RequireIdentity verifies the bearer token on protected endpoints and
// injects the resulting claims into the request context. Requests without
// a valid token are rejected before any handler runs.
func RequireIdentity(verifier identity.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				core.WriteError(w, core.NewHTTPError(http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "authorization token is required"))
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				core.WriteError(w, core.NewHTTPError(http.StatusUnauthorized, "AUTH_TOKEN_INVALID", "invalid or expired identity token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.SetClaimsToContext(r.Context(), claims)))
		})
	}
}

// ThrottleCodeGuesses rate limits the endpoints that verify guessable
// codes, keyed by client IP and path. A nil limiter disables the guard.
func ThrottleCodeGuesses(limiter *throttle.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, retryAfter, ok := limiter.Allow(clientKey(r))
			if !ok {
				if secs := int(retryAfter.Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				core.WriteError(w, core.NewHTTPError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many verification attempts"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return host + ":" + r.URL.Path
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
