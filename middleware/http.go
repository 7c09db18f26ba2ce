package middleware

import (
	"net/http"

	"github.com/serroba/gcra/policy"
)

// RateLimiter returns HTTP middleware that gates requests on an
// admission policy. The policy is a single shared counter: every
// request through the returned middleware draws from the same budget.
// Requests the policy rejects receive a 429 Too Many Requests response.
func RateLimiter(p policy.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !p.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
