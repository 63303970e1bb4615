package handler

import (
	"strings"

	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
)

const maxReasonLength = 1000

func validateReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return "", dErrors.New(dErrors.CodeValidation, "reason must be at most 1000 characters")
	}
	return reason, nil
}

// CreateRequest is the body of POST /verification-requests. The requestor is
// the authenticated user.
type CreateRequest struct {
	CustomerID string `json:"customer_id"`
	Reason     string `json:"reason"`

	parsedCustomerID id.UserID
}

// Validate implements httputil.Validatable.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	customerID, err := id.ParseUserID(strings.TrimSpace(r.CustomerID))
	if err != nil {
		return err
	}
	r.parsedCustomerID = customerID
	r.Reason, err = validateReason(r.Reason)
	return err
}

func (r *CreateRequest) ParsedCustomerID() id.UserID { return r.parsedCustomerID }

// UpdateStatusRequest is the body of PUT /verification-requests/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`

	parsedStatus models.Status
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status
	r.Reason, err = validateReason(r.Reason)
	return err
}

func (r *UpdateStatusRequest) ParsedStatus() models.Status { return r.parsedStatus }

// AssignOfficerRequest is the body of PUT /verification-requests/{id}/officer.
type AssignOfficerRequest struct {
	OfficerID string `json:"officer_id"`

	parsedOfficerID id.UserID
}

func (r *AssignOfficerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	officerID, err := id.ParseUserID(strings.TrimSpace(r.OfficerID))
	if err != nil {
		return err
	}
	r.parsedOfficerID = officerID
	return nil
}

func (r *AssignOfficerRequest) ParsedOfficerID() id.UserID { return r.parsedOfficerID }

// SetQuotaRequest is the body of PUT /customers/{customerID}/quota/requestors/{requestorID}.
type SetQuotaRequest struct {
	MaxAllowed int `json:"max_allowed"`
}

func (r *SetQuotaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.MaxAllowed <= 0 {
		return dErrors.New(dErrors.CodeValidation, "max_allowed must be positive")
	}
	return nil
}
