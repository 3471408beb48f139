package middleware

import (
	"net/http"
	"time"
)

// Timeout cuts off handlers that outlive the configured request budget.
// http.TimeoutHandler replies 503 with a static body, so the envelope is
// pre-rendered here to match the API's error shape.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	const body = `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request took too long to complete"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, body)
	}
}
