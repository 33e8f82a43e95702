package middleware

import (
	"net/http"

	"github.com/attendly/timepay-engine-go/internal/handler/http/response"
	"github.com/attendly/timepay-engine-go/internal/pkg/ratelimit"
)

// RateLimited throttles mutation endpoints per authenticated user, so a
// double-tapped check-in button cannot race itself.
func RateLimited(limiter *ratelimit.PerUserLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			employeeID, ok := EmployeeID(r)
			if !ok {
				response.Unauthorized(w, "missing identity")
				return
			}
			if !limiter.Allow(employeeID) {
				response.TooManyRequests(w, "Too many attempts, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
