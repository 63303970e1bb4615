package transition

import (
	"veriflow/internal/lifecycle/models"
	id "veriflow/pkg/domain"
	"veriflow/pkg/platform/notification"
)

// recipient picks the user a notification goes to. ok is false when the
// subject is absent, for example a request without an officer.
type recipient func(req *models.VerificationRequest) (id.UserID, bool)

func customer(req *models.VerificationRequest) (id.UserID, bool) {
	return req.CustomerID, true
}

func requestor(req *models.VerificationRequest) (id.UserID, bool) {
	return req.RequestorID, true
}

func assignedOfficer(req *models.VerificationRequest) (id.UserID, bool) {
	if !req.HasOfficer() {
		return id.UserID{}, false
	}
	return *req.AssignedOfficerID, true
}

type notificationRule struct {
	primary   recipient
	message   string
	secondary recipient
	// secondaryRequiresOfficer suppresses the secondary notification when
	// no officer is assigned.
	secondaryRequiresOfficer bool
}

var notificationRules = map[models.Status]notificationRule{
	models.StatusPending: {
		primary: customer,
		message: notification.MessageVerificationRequested,
	},
	models.StatusDocumentUploaded: {
		primary:                  assignedOfficer,
		message:                  notification.MessageDocumentUploaded,
		secondary:                requestor,
		secondaryRequiresOfficer: true,
	},
	models.StatusDocumentUpdated: {
		primary:   assignedOfficer,
		message:   notification.MessageDocumentUpdated,
		secondary: requestor,
	},
	models.StatusApproved: {
		primary: customer,
		message: notification.MessageVerificationApproved,
	},
	models.StatusRejected: {
		primary: customer,
		message: notification.MessageVerificationRejected,
	},
	models.StatusSentBack: {
		primary: customer,
		message: notification.MessageSentBack,
	},
	models.StatusInReview: {
		primary: customer,
		message: notification.MessageAssignedToOfficer,
	},
}

// recipientsFor resolves the notifications the request's current status calls for.
func recipientsFor(req *models.VerificationRequest) (message string, recipients []id.UserID) {
	rule, ok := notificationRules[req.Status]
	if !ok {
		return "", nil
	}
	if userID, ok := rule.primary(req); ok {
		recipients = append(recipients, userID)
	}
	if rule.secondary != nil && (!rule.secondaryRequiresOfficer || req.HasOfficer()) {
		if userID, ok := rule.secondary(req); ok {
			recipients = append(recipients, userID)
		}
	}
	return rule.message, recipients
}
