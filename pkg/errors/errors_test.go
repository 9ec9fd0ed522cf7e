package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.StatusCode() != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.StatusCode())
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
			appErr:   &AppError{Code: CodeNotFound, Message: "show not found"},
			expected: "NOT_FOUND: show not found",
		},
		{
			name:     "with underlying error",
			appErr:   &AppError{Code: CodeInternal, Message: "internal error", Err: errors.New("socket closed")},
			expected: "INTERNAL_ERROR: internal error (caused by: socket closed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Show", "show_tt1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("who"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("dup"), CodeConflict, http.StatusConflict},
		{"seat conflict", SeatConflict([]string{"A1"}), CodeSeatConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("omdb"), CodeUnavailable, http.StatusServiceUnavailable},
		{"store unavailable", StoreUnavailable(errors.New("x")), CodeUnavailable, http.StatusServiceUnavailable},
		{"too many requests", TooManyRequests("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Booking", "abc")
	if err.Details["resource"] != "Booking" || err.Details["id"] != "abc" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestSeatConflict_ListsSeats(t *testing.T) {
	err := SeatConflict([]string{"A2", "A3"})
	seats, ok := err.Details[DetailConflictingSeats].([]string)
	if !ok {
		t.Fatalf("expected []string details, got %T", err.Details[DetailConflictingSeats])
	}
	if len(seats) != 2 || seats[0] != "A2" || seats[1] != "A3" {
		t.Errorf("unexpected conflicting seats: %v", seats)
	}
}

func TestStoreUnavailable_HidesCause(t *testing.T) {
	cause := errors.New("server selection timeout: mongo-0:27017")
	err := StoreUnavailable(cause)

	if !errors.Is(err, cause) {
		t.Errorf("cause should be reachable through Unwrap")
	}
	body := string(err.ToJSON())
	if strings.Contains(body, "mongo-0") {
		t.Errorf("response body leaked cause: %s", body)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Show")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("reserve: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should unwrap wrapped AppError")
	}
	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see through wrapping")
	}

	regularErr := errors.New("plain")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal || result.Err != regularErr {
		t.Errorf("AsAppError() should wrap regular error as internal error, got %+v", result)
	}
	if IsAppError(regularErr) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestHasCode(t *testing.T) {
	if !HasCode(SeatConflict(nil), CodeSeatConflict) {
		t.Errorf("expected HasCode to match")
	}
	if HasCode(errors.New("x"), CodeSeatConflict) {
		t.Errorf("plain error should not match")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := Validation("invalid seats", map[string]any{"field": "seats"})

	var decoded ErrorResponse
	if jsonErr := json.Unmarshal(err.ToJSON(), &decoded); jsonErr != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", jsonErr)
	}
	if decoded.Code != CodeValidation || decoded.Message != "invalid seats" {
		t.Errorf("unexpected decoded response: %+v", decoded)
	}
	if decoded.Details["field"] != "seats" {
		t.Errorf("details missing: %+v", decoded.Details)
	}
}

func TestAppError_ZeroStatusDefaultsToInternal(t *testing.T) {
	err := &AppError{Code: CodeInternal}
	if err.StatusCode() != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.StatusCode())
	}
}
