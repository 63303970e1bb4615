package models

import (
	"net/http"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassRead covers status, history and quota lookups.
	ClassRead EndpointClass = "read"
	// ClassWrite covers request creation, status changes and reassignment.
	ClassWrite EndpointClass = "write"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassRead, ClassWrite:
		return true
	}
	return false
}

// ClassForMethod maps safe HTTP methods to ClassRead and everything else to
// ClassWrite.
func ClassForMethod(method string) EndpointClass {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	}
	return ClassWrite
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// UserRateLimitExceededResponse is the 429 body for a throttled actor.
type UserRateLimitExceededResponse struct {
	Error          string    `json:"error"`
	Message        string    `json:"message"`
	QuotaLimit     int       `json:"quota_limit"`
	QuotaRemaining int       `json:"quota_remaining"`
	QuotaReset     time.Time `json:"quota_reset"`
}
