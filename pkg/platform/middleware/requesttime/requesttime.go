// Package requesttime stamps each request with a single UTC start time read
// back through requestcontext.Now.
package requesttime

import (
	"net/http"
	"time"

	"veriflow/pkg/requestcontext"
)

// Middleware pins requestcontext.Now to the arrival time of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived := time.Now().UTC()
		next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), arrived)))
	})
}
