// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "veriflow/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Internal errors
// never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	code, ok := dErrors.CodeOf(err)
	if !ok {
		code = dErrors.CodeInternal
	}
	status := StatusForCode(code)

	resp := ErrorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, status, resp)
}

// StatusForCode maps a domain error code to an HTTP status.
func StatusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeInvalidOperation:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeLimitExceeded:
		return http.StatusTooManyRequests
	case dErrors.CodeNoOfficersAvailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields and
// bodies over 1MiB.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid json body")
	}
	return nil
}

// Validatable request bodies normalize and check themselves after decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the body into T and runs its Validate method. On
// failure it writes the error response and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := new(T)
	if err := DecodeJSON(r, req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
