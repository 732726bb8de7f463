// Package httputil holds the JSON request and response helpers shared by handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "matchday/pkg/domain-errors"
)

const maxBodyBytes = 1 << 20

// Validatable is implemented by request bodies that can check and parse themselves.
type Validatable interface {
	Validate() error
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

var categoryStatus = map[dErrors.Category]int{
	dErrors.CategoryBadRequest:   http.StatusBadRequest,
	dErrors.CategoryInvalidState: http.StatusUnprocessableEntity,
	dErrors.CategoryUnauthorized: http.StatusUnauthorized,
	dErrors.CategoryForbidden:    http.StatusForbidden,
	dErrors.CategoryNotFound:     http.StatusNotFound,
	dErrors.CategoryConflict:     http.StatusConflict,
	dErrors.CategoryTimeout:      http.StatusServiceUnavailable,
	dErrors.CategoryInternal:     http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	if status, ok := categoryStatus[dErrors.CodeOf(err).Category()]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON writes payload as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes err as {"error": code, "error_description": message}.
// Internal errors never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := StatusFor(err)
	resp := errorResponse{Error: string(code)}
	if status != http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, status, resp)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid json payload")
	}
	return nil
}

// DecodeAndPrepare decodes and validates a request body. On failure it writes
// the error response and returns false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	if err := DecodeJSON(r, &req); err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := PT(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}
