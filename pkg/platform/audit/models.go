package audit

import (
	"time"
)

// Topic is the outbox topic audit events are written to.
const Topic = "verification.audit"

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: a
	// verification request being opened or decided.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine workflow activity such as officer
	// assignment.
	CategoryOperations EventCategory = "operations"
)

// EntityType names the kind of record an audit event is about.
type EntityType string

const EntityVerificationRequest EntityType = "VERIFICATION_REQUEST"

type AuditEvent string

const (
	EventVerificationRequestCreated    AuditEvent = "VERIFICATION_REQUEST_CREATED"
	EventVerificationStatusChanged     AuditEvent = "VERIFICATION_STATUS_CHANGED"
	EventVerificationRequestAssigned   AuditEvent = "VERIFICATION_REQUEST_ASSIGNED"
	EventVerificationRequestReassigned AuditEvent = "VERIFICATION_REQUEST_REASSIGNED"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationRequestCreated:    CategoryCompliance,
	EventVerificationStatusChanged:     CategoryCompliance,
	EventVerificationRequestAssigned:   CategoryOperations,
	EventVerificationRequestReassigned: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory `json:"category"`
	Timestamp  time.Time     `json:"timestamp"`
	EntityType EntityType    `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Action     AuditEvent    `json:"action"`
	// ActorID is the user who performed the action.
	ActorID  string `json:"actor_id"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
	// RequestID is the correlation ID from the HTTP request context.
	RequestID string `json:"request_id,omitempty"`
}
