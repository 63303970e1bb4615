package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "veriflow/pkg/domain-errors"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"empty", "", "is required"},
		{"nil uuid", uuid.Nil.String(), "cannot be nil"},
		{"free text", "officer-42", "invalid"},
		{"whitespace", "   ", "invalid"},
		{"sql fragment", "'; DELETE FROM verification_requests;--", "invalid"},
		{"path segment", "../customers/quota", "invalid"},
		{"embedded null", "6f1c2b0e\x00-3d4a-4c8e-9f7a-1b2c3d4e5f60", "invalid"},
		{"oversized", strings.Repeat("f", 4096), "invalid"},
		{"uppercase", "6F1C2B0E-3D4A-4C8E-9F7A-1B2C3D4E5F60", ""},
		{"canonical", "6f1c2b0e-3d4a-4c8e-9f7a-1b2c3d4e5f60", ""},
	}

	parsers := map[string]func(string) (string, error){
		"user": func(s string) (string, error) {
			v, err := ParseUserID(s)
			return v.String(), err
		},
		"verification request": func(s string) (string, error) {
			v, err := ParseVerificationRequestID(s)
			return v.String(), err
		},
		"history entry": func(s string) (string, error) {
			v, err := ParseHistoryEntryID(s)
			return v.String(), err
		},
	}

	for label, parse := range parsers {
		for _, tt := range tests {
			t.Run(label+"/"+tt.name, func(t *testing.T) {
				got, err := parse(tt.input)
				if tt.message == "" {
					require.NoError(t, err)
					assert.Equal(t, strings.ToLower(tt.input), got)
					return
				}
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				assert.Contains(t, err.Error(), label+" ID")
				assert.Contains(t, err.Error(), tt.message)
			})
		}
	}
}

func TestGeneratedIDsAreNotNil(t *testing.T) {
	assert.False(t, NewVerificationRequestID().IsNil())
	assert.False(t, NewHistoryEntryID().IsNil())
	assert.True(t, UserID{}.IsNil())
}

func TestIDsMarshalAsUUIDStrings(t *testing.T) {
	u := uuid.New()
	raw, err := json.Marshal(map[string]UserID{"officer_id": UserID(u)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"officer_id":"`+u.String()+`"}`, string(raw))

	var decoded map[string]VerificationRequestID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, u.String(), decoded["officer_id"].String())
}
