// Package notification defines the user-facing messages the lifecycle emits
// when a verification request changes hands or state.
package notification

import "time"

// Topic is the outbox topic notifications are written to.
const Topic = "verification.notifications"

// Standard notification messages.
const (
	MessageVerificationRequested = "verification requested"
	MessageDocumentUploaded      = "document uploaded"
	MessageDocumentUpdated       = "document updated"
	MessageVerificationApproved  = "verification approved"
	MessageVerificationRejected  = "verification rejected"
	MessageSentBack              = "sent back for details"
	MessageAssignedToOfficer     = "assigned to officer"
)

// Notification is addressed to one user about one verification request.
type Notification struct {
	RecipientID           string    `json:"recipient_id"`
	VerificationRequestID string    `json:"verification_request_id"`
	Message               string    `json:"message"`
	Status                string    `json:"status,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	RequestID             string    `json:"request_id,omitempty"`
}
