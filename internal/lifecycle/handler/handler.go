// Package handler exposes the verification request lifecycle over HTTP. The
// acting user comes from the auth middleware; handlers only translate.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"veriflow/internal/lifecycle/models"
	quotamodels "veriflow/internal/quota/models"
	id "veriflow/pkg/domain"
	dErrors "veriflow/pkg/domain-errors"
	"veriflow/pkg/platform/httputil"
	"veriflow/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler calls.
type Service interface {
	CreateVerificationRequest(ctx context.Context, customerID, requestorID id.UserID, reason string) (*models.RequestSummary, error)
	UpdateStatus(ctx context.Context, requestID id.VerificationRequestID, officerID id.UserID, newStatus models.Status, reason string) (*models.RequestSummary, error)
	AssignToOfficer(ctx context.Context, requestID id.VerificationRequestID, officerID id.UserID) (*models.RequestSummary, error)
	RecordDocumentUpload(ctx context.Context, requestID id.VerificationRequestID, customerID id.UserID) (*models.RequestSummary, error)
	GetLatestStatus(ctx context.Context, requestID id.VerificationRequestID) (models.Status, error)
	GetStatusHistory(ctx context.Context, requestID id.VerificationRequestID) ([]*models.StatusHistoryEntry, error)
	GetRequestorCountForCustomer(ctx context.Context, requestorID, customerID id.UserID, year int) (*quotamodels.RequestorCount, error)
	GetTotalRequestsForCustomer(ctx context.Context, customerID id.UserID) (*quotamodels.CustomerTotal, error)
	ListRequestorCounts(ctx context.Context, customerID id.UserID) ([]*quotamodels.RequestorCount, error)
	SetRequestorQuota(ctx context.Context, customerID, requestorID id.UserID, maxAllowed int) (*quotamodels.RequestorCount, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the lifecycle endpoints. Callers install authentication.
func (h *Handler) Register(r chi.Router) {
	r.Route("/verification-requests", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/{requestID}/status", h.HandleGetStatus)
		r.Put("/{requestID}/status", h.HandleUpdateStatus)
		r.Get("/{requestID}/history", h.HandleGetHistory)
		r.Put("/{requestID}/officer", h.HandleAssignOfficer)
		r.Post("/{requestID}/documents/uploaded", h.HandleDocumentUploaded)
	})
	r.Route("/customers/{customerID}/quota", func(r chi.Router) {
		r.Get("/", h.HandleGetCustomerTotal)
		r.Get("/requestors", h.HandleListRequestorCounts)
		r.Get("/requestors/{requestorID}", h.HandleGetRequestorCount)
		r.Put("/requestors/{requestorID}", h.HandleSetRequestorQuota)
	})
}

// actor returns the authenticated user or writes 401.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) requestIDParam(w http.ResponseWriter, r *http.Request) (id.VerificationRequestID, bool) {
	requestID, err := id.ParseVerificationRequestID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.VerificationRequestID{}, false
	}
	return requestID, true
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request, name string) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, name))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, false
	}
	return userID, true
}

// fail logs err at a level matching its class and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	if httputil.StatusForCode(codeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func codeOf(err error) dErrors.Code {
	if code, ok := dErrors.CodeOf(err); ok {
		return code
	}
	return dErrors.CodeInternal
}

// HandleCreate handles POST /verification-requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	requestorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	summary, err := h.service.CreateVerificationRequest(ctx, req.ParsedCustomerID(), requestorID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "failed to create verification request", err, "requestor_id", requestorID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, summary)
}

// HandleGetStatus handles GET /verification-requests/{requestID}/status.
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	reqID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	status, err := h.service.GetLatestStatus(ctx, reqID)
	if err != nil {
		h.fail(ctx, w, "failed to get verification status", err, "verification_request_id", reqID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		VerificationRequestID: reqID.String(),
		Status:                string(status),
	})
}

// HandleUpdateStatus handles PUT /verification-requests/{requestID}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	officerID, ok := h.actor(w, r)
	if !ok {
		return
	}
	reqID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	summary, err := h.service.UpdateStatus(ctx, reqID, officerID, req.ParsedStatus(), req.Reason)
	if err != nil {
		h.fail(ctx, w, "failed to update verification status", err,
			"verification_request_id", reqID.String(),
			"officer_id", officerID.String(),
		)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleGetHistory handles GET /verification-requests/{requestID}/history.
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	reqID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	entries, err := h.service.GetStatusHistory(ctx, reqID)
	if err != nil {
		h.fail(ctx, w, "failed to get status history", err, "verification_request_id", reqID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toHistoryResponse(reqID.String(), entries))
}

// HandleAssignOfficer handles PUT /verification-requests/{requestID}/officer.
func (h *Handler) HandleAssignOfficer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	reqID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssignOfficerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	summary, err := h.service.AssignToOfficer(ctx, reqID, req.ParsedOfficerID())
	if err != nil {
		h.fail(ctx, w, "failed to assign officer", err, "verification_request_id", reqID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleDocumentUploaded handles POST /verification-requests/{requestID}/documents/uploaded.
func (h *Handler) HandleDocumentUploaded(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customerID, ok := h.actor(w, r)
	if !ok {
		return
	}
	reqID, ok := h.requestIDParam(w, r)
	if !ok {
		return
	}
	summary, err := h.service.RecordDocumentUpload(ctx, reqID, customerID)
	if err != nil {
		h.fail(ctx, w, "failed to record document upload", err, "verification_request_id", reqID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

// HandleGetCustomerTotal handles GET /customers/{customerID}/quota.
func (h *Handler) HandleGetCustomerTotal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	customerID, ok := h.userIDParam(w, r, "customerID")
	if !ok {
		return
	}
	total, err := h.service.GetTotalRequestsForCustomer(ctx, customerID)
	if err != nil {
		h.fail(ctx, w, "failed to get customer quota", err, "customer_id", customerID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, total)
}

// HandleListRequestorCounts handles GET /customers/{customerID}/quota/requestors.
func (h *Handler) HandleListRequestorCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	customerID, ok := h.userIDParam(w, r, "customerID")
	if !ok {
		return
	}
	counts, err := h.service.ListRequestorCounts(ctx, customerID)
	if err != nil {
		h.fail(ctx, w, "failed to list requestor quotas", err, "customer_id", customerID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RequestorCountsResponse{
		CustomerID: customerID.String(),
		Requestors: counts,
	})
}

// HandleGetRequestorCount handles GET
// /customers/{customerID}/quota/requestors/{requestorID}?year=YYYY. The year
// defaults to the current one.
func (h *Handler) HandleGetRequestorCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	customerID, ok := h.userIDParam(w, r, "customerID")
	if !ok {
		return
	}
	requestorID, ok := h.userIDParam(w, r, "requestorID")
	if !ok {
		return
	}
	year, err := parseYear(r.URL.Query().Get("year"), requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	count, err := h.service.GetRequestorCountForCustomer(ctx, requestorID, customerID, year)
	if err != nil {
		h.fail(ctx, w, "failed to get requestor quota", err,
			"customer_id", customerID.String(),
			"requestor_id", requestorID.String(),
		)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, count)
}

// HandleSetRequestorQuota handles PUT /customers/{customerID}/quota/requestors/{requestorID}.
func (h *Handler) HandleSetRequestorQuota(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.actor(w, r); !ok {
		return
	}
	customerID, ok := h.userIDParam(w, r, "customerID")
	if !ok {
		return
	}
	requestorID, ok := h.userIDParam(w, r, "requestorID")
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SetQuotaRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	count, err := h.service.SetRequestorQuota(ctx, customerID, requestorID, req.MaxAllowed)
	if err != nil {
		h.fail(ctx, w, "failed to set requestor quota", err,
			"customer_id", customerID.String(),
			"requestor_id", requestorID.String(),
		)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, count)
}

func parseYear(raw string, now time.Time) (int, error) {
	if raw == "" {
		return now.Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "year must be a four digit year")
	}
	return year, nil
}
