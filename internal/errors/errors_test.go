package errors

import (
	"fmt"
	"testing"
)

func TestDossierError_Error(t *testing.T) {
	err := &DossierError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "client not found",
	}

	expected := "NOT_FOUND: client not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("doc_type is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "doc_type is required" {
		t.Errorf("Message = %q, want %q", err.Message, "doc_type is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01HXYZ")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01HXYZ" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01HXYZ")
	}
}

func TestNewSessionClosed(t *testing.T) {
	err := NewSessionClosed()

	if err.Code != ErrSessionClosed {
		t.Errorf("Code = %q, want %q", err.Code, ErrSessionClosed)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewExportInProgress(t *testing.T) {
	err := NewExportInProgress("FACTURE")

	if err.Code != ErrExportInProgress {
		t.Errorf("Code = %q, want %q", err.Code, ErrExportInProgress)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["doc_type"] != "FACTURE" {
		t.Errorf("Details[doc_type] = %v, want %q", err.Details["doc_type"], "FACTURE")
	}
}

func TestNewDraftSaveFailed(t *testing.T) {
	err := NewDraftSaveFailed(fmt.Errorf("disk full"))

	if err.Code != ErrDraftSaveFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrDraftSaveFailed)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "draft save failed: disk full" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewExportFailed(t *testing.T) {
	err := NewExportFailed(fmt.Errorf("rasterization aborted"))

	if err.Code != ErrExportFailed {
		t.Errorf("Code = %q, want %q", err.Code, ErrExportFailed)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
}

func TestNewExportFailed_NilError(t *testing.T) {
	err := NewExportFailed(nil)

	if err.Message != "PDF generation failed" {
		t.Errorf("Message = %q, want %q", err.Message, "PDF generation failed")
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("database exploded"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "database exploded" {
		t.Errorf("Message = %q, want %q", err.Message, "database exploded")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	notFound := NewNotFound("x")

	if !Is(notFound, ErrNotFound) {
		t.Error("Is(notFound, ErrNotFound) = false, want true")
	}
	if Is(notFound, ErrInvalidRequest) {
		t.Error("Is(notFound, ErrInvalidRequest) = true, want false")
	}
	if Is(fmt.Errorf("plain"), ErrInternal) {
		t.Error("Is(plain error, ErrInternal) = true, want false")
	}
	if Is(nil, ErrInternal) {
		t.Error("Is(nil, ErrInternal) = true, want false")
	}
}
