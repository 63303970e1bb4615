package handler

import (
	"time"

	"veriflow/internal/lifecycle/models"
	quotamodels "veriflow/internal/quota/models"
)

// StatusResponse is returned by GET /verification-requests/{id}/status.
type StatusResponse struct {
	VerificationRequestID string `json:"verification_request_id"`
	Status                string `json:"status"`
}

// HistoryEntryResponse is one status change.
type HistoryEntryResponse struct {
	ID         string    `json:"id"`
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  string    `json:"changed_by"`
	Reason     string    `json:"reason,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}

// HistoryResponse is returned by GET /verification-requests/{id}/history,
// most recent first.
type HistoryResponse struct {
	VerificationRequestID string                 `json:"verification_request_id"`
	Entries               []HistoryEntryResponse `json:"entries"`
}

func toHistoryResponse(requestID string, entries []*models.StatusHistoryEntry) *HistoryResponse {
	resp := &HistoryResponse{
		VerificationRequestID: requestID,
		Entries:               make([]HistoryEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		entry := HistoryEntryResponse{
			ID:        e.ID.String(),
			ToStatus:  string(e.ToStatus),
			ChangedBy: e.ChangedBy.String(),
			Reason:    e.Reason,
			ChangedAt: e.ChangedAt,
		}
		if e.FromStatus != nil {
			from := string(*e.FromStatus)
			entry.FromStatus = &from
		}
		resp.Entries = append(resp.Entries, entry)
	}
	return resp
}

// RequestorCountsResponse is returned by GET /customers/{customerID}/quota/requestors.
type RequestorCountsResponse struct {
	CustomerID string                        `json:"customer_id"`
	Requestors []*quotamodels.RequestorCount `json:"requestors"`
}
