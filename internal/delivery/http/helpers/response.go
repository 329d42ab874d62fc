package helpers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"coffeemeet/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
// Domain failures reuse the domain.ErrorKind strings as codes.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeInternalError = "internal_error"
	ErrCodeValidation    = string(domain.KindValidation)
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// StatusForKind maps a domain error kind to its HTTP status.
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindDataIntegrity:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// WriteDomainError writes err with the status and code of its kind.
// Dependency failures are logged and their cause is not exposed.
func WriteDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	msg := domain.MessageOf(err)
	switch kind {
	case domain.KindDependency, domain.KindDataIntegrity:
		if logger != nil {
			logger.Error("request failed", "kind", kind, "err", err)
		}
	}
	WriteJSONError(w, StatusForKind(kind), string(kind), msg)
}
