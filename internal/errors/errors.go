// Package errors defines the stable error codes used across repolens.
//
// The selection and context pipeline itself is total: degenerate input
// degrades to a smaller-but-valid result instead of an error. The codes
// here cover the collaborators around that core (file access, session
// storage, the model client) plus the advisory citation findings.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// QueryEmpty indicates an empty or whitespace-only query
	QueryEmpty ErrorCode = "QUERY_EMPTY"
	// TreeEmpty indicates the repository snapshot produced no files
	TreeEmpty ErrorCode = "TREE_EMPTY"
	// RepoNotFound indicates the repository root does not exist
	RepoNotFound ErrorCode = "REPO_NOT_FOUND"
	// FileUnreadable indicates a selected file could not be read
	FileUnreadable ErrorCode = "FILE_UNREADABLE"
	// BudgetExceeded indicates the assembled context hit the token budget
	BudgetExceeded ErrorCode = "BUDGET_EXCEEDED"
	// CitationInvalid indicates model output cited outside the supplied context
	CitationInvalid ErrorCode = "CITATION_INVALID"
	// SessionStore indicates a conversation-store failure
	SessionStore ErrorCode = "SESSION_STORE"
	// LLMUnavailable indicates the completion backend is not reachable or configured
	LLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// LensError represents a repolens error with a stable code and message
type LensError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new LensError
func New(code ErrorCode, message string, cause error) *LensError {
	return &LensError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *LensError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *LensError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *LensError) WithDetails(details interface{}) *LensError {
	e.Details = details
	return e
}

// CodeOf extracts the stable code from err, or InternalError when err is
// not a LensError.
func CodeOf(err error) ErrorCode {
	var le *LensError
	if errors.As(err, &le) {
		return le.Code
	}
	return InternalError
}
