package models

import (
	"fmt"
	"time"

	id "veriflow/pkg/domain"
)

// Key identifies one quota pair for one calendar year.
type Key struct {
	CustomerID  id.UserID
	RequestorID id.UserID
	Year        int
}

func NewKey(customerID, requestorID id.UserID, year int) Key {
	return Key{CustomerID: customerID, RequestorID: requestorID, Year: year}
}

// String renders the key for logs and the redis keyspace.
func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d", k.CustomerID, k.RequestorID, k.Year)
}

// QuotaRecord tracks how many verification requests a requestor has opened
// against a customer in one year.
type QuotaRecord struct {
	CustomerID         id.UserID
	RequestorID        id.UserID
	Year               int
	RequestCount       int
	TotalRequests      int
	MaxAllowedRequests int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *QuotaRecord) Key() Key {
	return NewKey(r.CustomerID, r.RequestorID, r.Year)
}

// Policy carries the caps the increment and gate rules are evaluated against.
type Policy struct {
	RollingCap        int
	DefaultMaxAllowed int
	BlockOnRollingCap bool
}

// NewRecord builds the record written on the first increment for a key.
func NewRecord(key Key, policy Policy, now time.Time) *QuotaRecord {
	return &QuotaRecord{
		CustomerID:         key.CustomerID,
		RequestorID:        key.RequestorID,
		Year:               key.Year,
		RequestCount:       1,
		TotalRequests:      1,
		MaxAllowedRequests: policy.DefaultMaxAllowed,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ApplyIncrement advances the counters in place. The rolling counter resets to
// 1 once it has reached the cap unless the policy blocks instead; the total
// always grows by one.
func (r *QuotaRecord) ApplyIncrement(policy Policy, now time.Time) {
	if !policy.BlockOnRollingCap && r.RequestCount >= policy.RollingCap {
		r.RequestCount = 1
	} else {
		r.RequestCount++
	}
	r.TotalRequests++
	r.UpdatedAt = now
}

// AllowsCreate reports whether one more request fits under both caps.
func (r *QuotaRecord) AllowsCreate(policy Policy) bool {
	if r.TotalRequests >= r.MaxAllowedRequests {
		return false
	}
	if policy.BlockOnRollingCap {
		return r.RequestCount < policy.RollingCap
	}
	return r.RequestCount <= policy.RollingCap
}

// RequestorCount is the per-pair view returned by quota queries.
type RequestorCount struct {
	CustomerID    id.UserID `json:"customer_id"`
	RequestorID   id.UserID `json:"requestor_id"`
	Year          int       `json:"year"`
	RequestCount  int       `json:"request_count"`
	TotalRequests int       `json:"total_requests"`
	MaxAllowed    int       `json:"max_allowed"`
}

func (r *QuotaRecord) ToRequestorCount() *RequestorCount {
	return &RequestorCount{
		CustomerID:    r.CustomerID,
		RequestorID:   r.RequestorID,
		Year:          r.Year,
		RequestCount:  r.RequestCount,
		TotalRequests: r.TotalRequests,
		MaxAllowed:    r.MaxAllowedRequests,
	}
}

// CustomerTotal aggregates every requestor's count for one customer and year.
type CustomerTotal struct {
	CustomerID    id.UserID `json:"customer_id"`
	Year          int       `json:"year"`
	TotalRequests int       `json:"total_requests"`
	MaxAllowed    int       `json:"max_allowed"`
	Requestors    int       `json:"requestors"`
}
