package models

import (
	"time"

	id "veriflow/pkg/domain"
)

// Role classifies users for the lifecycle.
type Role string

const (
	RoleCustomer            Role = "CUSTOMER"
	RoleRequestor           Role = "REQUESTOR"
	RoleVerificationOfficer Role = "VERIFICATION_OFFICER"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleRequestor, RoleVerificationOfficer:
		return true
	}
	return false
}

// User is the lifecycle's view of a directory entry.
type User struct {
	ID    id.UserID
	Name  string
	Email string
	Role  Role
}

// VerificationRequest is never hard-deleted; it is mutated only through status
// transitions and officer assignment.
type VerificationRequest struct {
	ID                id.VerificationRequestID
	CustomerID        id.UserID
	RequestorID       id.UserID
	AssignedOfficerID *id.UserID
	Status            Status
	RequestReason     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ApprovedAt        *time.Time
	RejectedAt        *time.Time
}

// NewVerificationRequest builds a PENDING request.
func NewVerificationRequest(customerID, requestorID id.UserID, reason string, now time.Time) *VerificationRequest {
	return &VerificationRequest{
		ID:            id.NewVerificationRequestID(),
		CustomerID:    customerID,
		RequestorID:   requestorID,
		Status:        StatusPending,
		RequestReason: reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (r *VerificationRequest) HasOfficer() bool {
	return r.AssignedOfficerID != nil && !r.AssignedOfficerID.IsNil()
}

// IsAssignedTo reports whether userID is the request's current officer.
func (r *VerificationRequest) IsAssignedTo(userID id.UserID) bool {
	return r.HasOfficer() && *r.AssignedOfficerID == userID
}

// ApplyStatus moves the request to status and stamps the decision timestamps.
// It returns the previous status.
func (r *VerificationRequest) ApplyStatus(status Status, now time.Time) Status {
	previous := r.Status
	r.Status = status
	r.UpdatedAt = now
	switch status {
	case StatusApproved:
		r.ApprovedAt = &now
	case StatusRejected:
		r.RejectedAt = &now
	}
	return previous
}

// AssignOfficer sets the officer and returns the previous one, if any.
func (r *VerificationRequest) AssignOfficer(officerID id.UserID, now time.Time) *id.UserID {
	previous := r.AssignedOfficerID
	officer := officerID
	r.AssignedOfficerID = &officer
	r.UpdatedAt = now
	return previous
}

// Clone returns a deep copy so stores never share pointers with callers.
func (r *VerificationRequest) Clone() *VerificationRequest {
	c := *r
	if r.AssignedOfficerID != nil {
		officer := *r.AssignedOfficerID
		c.AssignedOfficerID = &officer
	}
	if r.ApprovedAt != nil {
		t := *r.ApprovedAt
		c.ApprovedAt = &t
	}
	if r.RejectedAt != nil {
		t := *r.RejectedAt
		c.RejectedAt = &t
	}
	return &c
}

// StatusHistoryEntry is append-only. FromStatus is nil only for the entry
// written at creation.
type StatusHistoryEntry struct {
	ID                    id.HistoryEntryID
	VerificationRequestID id.VerificationRequestID
	FromStatus            *Status
	ToStatus              Status
	ChangedBy             id.UserID
	Reason                string
	ChangedAt             time.Time
}

// NewHistoryEntry records a move from one status to another. Pass an empty
// from for the initial entry.
func NewHistoryEntry(requestID id.VerificationRequestID, from, to Status, changedBy id.UserID, reason string, at time.Time) *StatusHistoryEntry {
	entry := &StatusHistoryEntry{
		ID:                    id.NewHistoryEntryID(),
		VerificationRequestID: requestID,
		ToStatus:              to,
		ChangedBy:             changedBy,
		Reason:                reason,
		ChangedAt:             at,
	}
	if from != "" {
		f := from
		entry.FromStatus = &f
	}
	return entry
}

// DocumentSummary is the slice of document metadata the workload score needs.
type DocumentSummary struct {
	SizeBytes int64
	Status    string
}

// DocumentTotals aggregates the documents attached to one request.
type DocumentTotals struct {
	Count      int
	TotalBytes int64
}

func (t *DocumentTotals) Add(doc DocumentSummary) {
	t.Count++
	t.TotalBytes += doc.SizeBytes
}

// RequestSummary is returned to callers of lifecycle operations.
type RequestSummary struct {
	ID                id.VerificationRequestID `json:"id"`
	CustomerID        id.UserID                `json:"customer_id"`
	RequestorID       id.UserID                `json:"requestor_id"`
	AssignedOfficerID *id.UserID               `json:"assigned_officer_id,omitempty"`
	Status            Status                   `json:"status"`
	RequestReason     string                   `json:"request_reason"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
	ApprovedAt        *time.Time               `json:"approved_at,omitempty"`
	RejectedAt        *time.Time               `json:"rejected_at,omitempty"`
}

func (r *VerificationRequest) Summary() *RequestSummary {
	c := r.Clone()
	return &RequestSummary{
		ID:                c.ID,
		CustomerID:        c.CustomerID,
		RequestorID:       c.RequestorID,
		AssignedOfficerID: c.AssignedOfficerID,
		Status:            c.Status,
		RequestReason:     c.RequestReason,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		ApprovedAt:        c.ApprovedAt,
		RejectedAt:        c.RejectedAt,
	}
}
