// Package domain holds typed identifiers shared across modules. Each ID wraps a
// UUID so a request ID can never be passed where a user ID is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "veriflow/pkg/domain-errors"
)

type (
	// UserID identifies customers, requestors and verification officers alike.
	UserID uuid.UUID
	// VerificationRequestID identifies a verification request.
	VerificationRequestID uuid.UUID
	// HistoryEntryID identifies one status history row.
	HistoryEntryID uuid.UUID
)

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id VerificationRequestID) String() string { return uuid.UUID(id).String() }
func (id VerificationRequestID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id HistoryEntryID) String() string { return uuid.UUID(id).String() }
func (id HistoryEntryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders IDs as canonical UUID strings in JSON and logs.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id VerificationRequestID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id HistoryEntryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *VerificationRequestID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *HistoryEntryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// NewVerificationRequestID returns a random request ID.
func NewVerificationRequestID() VerificationRequestID {
	return VerificationRequestID(uuid.New())
}

// NewHistoryEntryID returns a random history entry ID.
func NewHistoryEntryID() HistoryEntryID {
	return HistoryEntryID(uuid.New())
}

// ParseUserID parses a trust-boundary string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user ID")
	return UserID(u), err
}

// ParseVerificationRequestID parses a trust-boundary string into a VerificationRequestID.
func ParseVerificationRequestID(s string) (VerificationRequestID, error) {
	u, err := parseUUID(s, "verification request ID")
	return VerificationRequestID(u), err
}

// ParseHistoryEntryID parses a trust-boundary string into a HistoryEntryID.
func ParseHistoryEntryID(s string) (HistoryEntryID, error) {
	u, err := parseUUID(s, "history entry ID")
	return HistoryEntryID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
