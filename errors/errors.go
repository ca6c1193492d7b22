package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable code of an AppError.
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken    ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidPassword ErrorCode = "INVALID_PASSWORD"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"

	// Business errors
	ErrCodeReservationConflict ErrorCode = "RESERVATION_CONFLICT"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeVehicleUnavailable  ErrorCode = "VEHICLE_UNAVAILABLE"
	ErrCodeSnapshotNotReady    ErrorCode = "SNAPSHOT_NOT_READY"
	ErrCodeInUse               ErrorCode = "IN_USE"
	ErrCodeInvalidOperation    ErrorCode = "INVALID_OPERATION"
)

// AppError carries a code, a message safe to show to the user and the cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError returns the AppError wrapped by err, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

var (
	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUnauthorized    = errors.New("unauthorized")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReservationConflict = errors.New("vehicle already reserved for these dates")

	// Catalog errors
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available for rent")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryInUse      = errors.New("category still has vehicles")
	ErrClientNotFound     = errors.New("client not found")
	ErrClientInUse        = errors.New("client still has reservations")
)
