package apperror

import (
	"errors"
	"fmt"
)

// AppError is a structured error carrying a stable machine-readable code.
type AppError struct {
	Code    string
	Message string
	Err     error // Wrapped internal error, optional
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

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the AppError in err's chain, or "" when err
// carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Ledger operations (LDG) ----

func ErrInvalidAmount() *AppError {
	return New("LDG_001", "Amount must be a positive number")
}

func ErrInsufficientBalance() *AppError {
	return New("LDG_002", "Insufficient balance in wallet")
}

func ErrNotFound(entity string) *AppError {
	return New("LDG_003", fmt.Sprintf("%s not found", entity))
}

// Validation returns an LDG_004 error for invalid wallet settings input.
func Validation(message string) *AppError {
	return New("LDG_004", message)
}

// ---- Snapshot import/export (SNP) ----

func ErrInvalidFormat(err error) *AppError {
	return Wrap("SNP_001", "Snapshot does not match the expected format", err)
}

// ---- System & storage (SYS) ----

func ErrStorageFailure(err error) *AppError {
	return Wrap("SYS_001", "Snapshot storage failure", err)
}

// InternalError wraps an unexpected internal error.
func InternalError(err error) *AppError {
	return Wrap("SYS_002", "Internal error", err)
}
