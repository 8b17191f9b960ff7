package middleware

import (
	"net/http"
	"time"
)

// Timeout wraps a handler with an http.TimeoutHandler.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, `{"success":false,"error":"request timeout"}`)
	}
}
