package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidationFailed, http.StatusBadRequest, "email is required")

	if err.Code != CodeValidationFailed {
		t.Errorf("expected code %s, got %s", CodeValidationFailed, err.Code)
	}
	if err.Message() != "email is required" {
		t.Errorf("expected message 'email is required', got %s", err.Message())
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   NotFound("BookingId: 7 is not found"),
			expected: "NOT_FOUND: BookingId: 7 is not found",
		},
		{
			name:     "with underlying error",
			appErr:   SystemFailure("internal error", errors.New("connection reset")),
			expected: "SYSTEM_FAILURE: internal error (caused by: connection reset)",
		},
		{
			name:     "several descriptions",
			appErr:   ValidationFailed("firstName is required", "email is required"),
			expected: "VALIDATION_FAILED: firstName is required; email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("duplicate key")
	appErr := DateNotAvailable(originalErr)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("Unwrap() should expose the original error")
	}
}

func TestKindStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation failed", ValidationFailed("x"), CodeValidationFailed, http.StatusBadRequest},
		{"dates invalid", DatesInvalid("Booking Dates not in range"), CodeDatesInvalid, http.StatusBadRequest},
		{"date not available", DateNotAvailable(nil), CodeDateNotAvailable, http.StatusBadRequest},
		{"not found", NotFoundWithID("BookingId", 3), CodeNotFound, http.StatusNotFound},
		{"already cancelled", AlreadyCancelled("x"), CodeAlreadyCancelled, http.StatusBadRequest},
		{"already in progress", AlreadyInProgress("x"), CodeAlreadyInProgress, http.StatusBadRequest},
		{"system failure", SystemFailure("x", nil), CodeSystemFailure, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("BookingId", 12345)

	if err.Message() != "BookingId: 12345 is not found" {
		t.Errorf("unexpected message %q", err.Message())
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("missing")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeSystemFailure {
		t.Errorf("AsAppError() should wrap regular error as system failure")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsClientError(t *testing.T) {
	if !IsClientError(DatesInvalid("x")) {
		t.Errorf("DatesInvalid should be a client error")
	}
	if IsClientError(SystemFailure("x", nil)) {
		t.Errorf("SystemFailure should not be a client error")
	}
	if IsClientError(errors.New("plain")) {
		t.Errorf("plain errors should not be client errors")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := ValidationFailed("firstName is required", "email is required")

	var resp ErrorResponse
	if jerr := json.Unmarshal(err.ToJSON("T42"), &resp); jerr != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", jerr)
	}
	if resp.TransactionID != "T42" {
		t.Errorf("expected transaction id T42, got %s", resp.TransactionID)
	}
	if len(resp.Errors) != 2 || resp.Errors[1].Description != "email is required" {
		t.Errorf("unexpected errors payload: %+v", resp.Errors)
	}
}
