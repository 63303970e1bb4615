package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"jane.doe@example.com", "Jane Doe"},
		{"olga_m_officer@example.com", "Olga Officer"},
		{"ops+alerts@example.com", "Ops Alerts"},
		{"solo@example.com", "Solo"},
		{"élodie.roux@example.fr", "Élodie Roux"},
		{"@example.com", "User"},
		{"", "User"},
		{"no-domain", "No Domain"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.addr))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jane@example.com", Normalize("  Jane@Example.COM "))
}
