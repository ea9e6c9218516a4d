package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Error codes surfaced to clients alongside the HTTP status so they can
// distinguish expected redemption outcomes from generic failures.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyProcessed      = "ALREADY_PROCESSED"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeNoCodesAvailable      = "NO_CODES_AVAILABLE"
	CodeInvalidCodesFormat    = "INVALID_CODES_FORMAT"
	CodeConflict              = "CONFLICT"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewAppErrorWithCode(statusCode int, code, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppErrorWithCode(http.StatusNotFound, CodeNotFound, message)
}

func NewConflictError(code, message string) *AppError {
	return NewAppErrorWithCode(http.StatusConflict, code, message)
}

func NewUnprocessableEntityError(code, message string) *AppError {
	return NewAppErrorWithCode(http.StatusUnprocessableEntity, code, message)
}

func NewTooManyRequestsError(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}
