package api

import (
	"errors"
	"net/http"

	"fds/pkg/fds"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeErrorResponse writes an error response, mapping structured error
// codes to HTTP status codes.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var coreErr *fds.Error
	if errors.As(err, &coreErr) {
		response.ErrorCode = string(coreErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(coreErr.Code)
		response.Code = httpStatus
	}

	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code fds.ErrorCode) int {
	switch code {
	case fds.ErrCodeInvalidInput, fds.ErrCodeValidation:
		return http.StatusBadRequest
	case fds.ErrCodeNormalizationGap:
		return http.StatusUnprocessableEntity
	case fds.ErrCodeNotFound:
		return http.StatusNotFound
	case fds.ErrCodeDuplicate:
		return http.StatusConflict
	case fds.ErrCodeExportSchema, fds.ErrCodeDatabase, fds.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
