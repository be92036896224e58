package errors

import "fmt"

// ErrorCode represents a dossier error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"          // 404
	ErrSessionClosed    ErrorCode = "SESSION_CLOSED"     // 409
	ErrExportInProgress ErrorCode = "EXPORT_IN_PROGRESS" // 409
	ErrDraftSaveFailed  ErrorCode = "DRAFT_SAVE_FAILED"  // 500
	ErrExportFailed     ErrorCode = "EXPORT_FAILED"      // 500
	ErrInternal         ErrorCode = "INTERNAL"           // 500
)

// DossierError represents a structured error with code, status, and details.
type DossierError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DossierError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *DossierError {
	return &DossierError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing client, draft, or history entry.
func NewNotFound(identifier string) *DossierError {
	return &DossierError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewSessionClosed creates a 409 error for operations on a closed editor session.
// The preview target no longer exists, so nothing can be exported from it.
func NewSessionClosed() *DossierError {
	return &DossierError{
		Code:    ErrSessionClosed,
		Status:  409,
		Message: "editor session is closed; preview target no longer exists",
	}
}

// NewExportInProgress creates a 409 error when an export is already in flight
// for the same client and document type.
func NewExportInProgress(docType string) *DossierError {
	return &DossierError{
		Code:    ErrExportInProgress,
		Status:  409,
		Message: fmt.Sprintf("an export is already in progress for %s", docType),
		Details: map[string]any{"doc_type": docType},
	}
}

// NewDraftSaveFailed creates a 500 error for draft persistence failures.
// Kept distinct from export failures so surfaces can message them separately.
func NewDraftSaveFailed(err error) *DossierError {
	msg := "draft save failed"
	if err != nil {
		msg = fmt.Sprintf("draft save failed: %v", err)
	}
	return &DossierError{
		Code:    ErrDraftSaveFailed,
		Status:  500,
		Message: msg,
	}
}

// NewExportFailed creates a 500 error for PDF generation failures.
func NewExportFailed(err error) *DossierError {
	msg := "PDF generation failed"
	if err != nil {
		msg = fmt.Sprintf("PDF generation failed: %v", err)
	}
	return &DossierError{
		Code:    ErrExportFailed,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DossierError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DossierError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a DossierError with the given code.
func Is(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DossierError); ok {
		return dErr.Code == code
	}
	return false
}
