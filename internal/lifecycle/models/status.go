package models

import (
	"strings"

	dErrors "veriflow/pkg/domain-errors"
)

// Status is the position of a verification request in its lifecycle. No
// status is terminal; the assigned officer may move a request to any status.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusDocumentUploaded Status = "DOCUMENT_UPLOADED"
	StatusInReview         Status = "IN_REVIEW"
	StatusSentBack         Status = "SENT_BACK"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusDocumentUpdated  Status = "DOCUMENT_UPDATED"
)

var allStatuses = []Status{
	StatusPending,
	StatusDocumentUploaded,
	StatusInReview,
	StatusSentBack,
	StatusApproved,
	StatusRejected,
	StatusDocumentUpdated,
}

var validStatuses = func() map[Status]struct{} {
	m := make(map[Status]struct{}, len(allStatuses))
	for _, s := range allStatuses {
		m[s] = struct{}{}
	}
	return m
}()

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := validStatuses[s]
	return ok
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts the canonical upper-case names, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "status is required")
	}
	if !s.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown status: "+raw)
	}
	return s, nil
}

// StatusAfterUpload is the status a customer's upload moves a request to.
// A request that was sent back records the upload as an update.
func StatusAfterUpload(current Status) Status {
	if current == StatusSentBack {
		return StatusDocumentUpdated
	}
	return StatusDocumentUploaded
}
