package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
	"github.com/yukikurage/sitewalk-tasks/internal/services"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Backend errors
	ErrCodeConfiguration   = "CONFIGURATION_ERROR"
	ErrCodeBackendNotFound = "BACKEND_NOT_FOUND"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

var missingField = []error{
	services.ErrProjectRequired,
	services.ErrTitleRequired,
	services.ErrTaskIDRequired,
	services.ErrNoTasksProvided,
	services.ErrSubcontractorRequired,
	services.ErrContractorNameRequired,
	services.ErrNotesRequired,
}

// Classify maps a service, repository or backend error to a status and code.
func Classify(err error) (int, string) {
	for _, target := range missingField {
		if errors.Is(err, target) {
			return http.StatusBadRequest, ErrCodeMissingField
		}
	}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, repository.ErrReservedTabName):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case errors.Is(err, repository.ErrTaskNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, repository.ErrContractorExists):
		return http.StatusConflict, ErrCodeAlreadyExists
	case errors.Is(err, services.ErrAIServiceNotConfigured), errors.Is(err, services.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		return http.StatusUnprocessableEntity, ErrCodeInvalidInput
	case errors.Is(err, sheets.ErrConfiguration):
		return http.StatusInternalServerError, ErrCodeConfiguration
	case errors.Is(err, sheets.ErrBackendNotFound):
		return http.StatusInternalServerError, ErrCodeBackendNotFound
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// FromError sends the response matching err. Server-side failures are logged.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "code", code, "error", err)
	}
	RespondWithError(c, status, NewAPIError(code, err.Error()))
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}
