package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"request timed out","code":"REQUEST_TIMEOUT"}`

// Timeout bounds handler run time. The handler's context is cancelled when
// the deadline passes and the client receives a 503 JSON body.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, timeoutBody)
	}
}
