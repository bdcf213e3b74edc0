// Package middleware contains HTTP middleware for the controller API.
package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"

	"golang.org/x/time/rate"
)

// RateLimit throttles the public API with a single process-wide token
// bucket. The deployment is single-tenant, so one limiter is enough.
// limit <= 0 disables limiting.
func RateLimit(limit float64, burst int) func(http.Handler) http.Handler {
	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(api.ErrorResponse{
					Error: "Too Many Requests",
					Code:  "429",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
