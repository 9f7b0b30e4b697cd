package apperrors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeSchema       ErrorCode = "SCHEMA_ERROR"
	CodeParse        ErrorCode = "PARSE_ERROR"
	CodeIO           ErrorCode = "IO_ERROR"
	CodePrecondition ErrorCode = "PRECONDITION_FAILED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the error type returned by every pipeline stage. The code tells
// the caller which class of failure aborted the run.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func NotFoundWrap(err error, message string) *AppError {
	return Wrap(err, CodeNotFound, message)
}

func Schema(format string, args ...any) *AppError {
	return New(CodeSchema, fmt.Sprintf(format, args...))
}

func Parse(format string, args ...any) *AppError {
	return New(CodeParse, fmt.Sprintf(format, args...))
}

func ParseWrap(err error, message string) *AppError {
	return Wrap(err, CodeParse, message)
}

func IOWrap(err error, message string) *AppError {
	return Wrap(err, CodeIO, message)
}

func Precondition(message string) *AppError {
	return New(CodePrecondition, message)
}

func Internal(message string) *AppError {
	return New(CodeInternal, message)
}

func InternalWrap(err error, message string) *AppError {
	return Wrap(err, CodeInternal, message)
}

// CodeOf returns the code of the first AppError in the chain, or
// CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
