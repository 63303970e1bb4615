package testutil

import (
	"net/http"
	"time"

	id "veriflow/pkg/domain"
	"veriflow/pkg/requestcontext"
)

// WithUserID sets the acting user the way the auth middleware does. Values
// that do not parse as user IDs leave the request anonymous.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithRequestTime pins the clock read by requestcontext.Now.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
