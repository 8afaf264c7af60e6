package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrConflict       = errors.New("resource conflict")
)

// ErrorDetail is the error payload shape returned to API clients.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}

// APIErrorResponse wraps an ErrorDetail for JSON responses.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError carries a client-facing detail plus the wrapped cause used for
// status-code mapping.
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Detail.Code, e.Detail.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Detail.Code, e.Detail.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CompileError is the batched failure raised by the course compiler. It
// always carries the complete ordered list of structural problems, never
// just the first one.
type CompileError struct {
	Messages []string
}

func NewCompileError(messages []string) *CompileError {
	return &CompileError{Messages: messages}
}

func (e *CompileError) Error() string {
	return strings.Join(e.Messages, "\n")
}

// Unwrap lets compile errors map to a 400 via errors.Is(err, ErrInvalidInput).
func (e *CompileError) Unwrap() error {
	return ErrInvalidInput
}
