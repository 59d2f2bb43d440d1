package utils

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad input"), http.StatusBadRequest},
		{NewInvalidStateError("fir was not requested"), http.StatusBadRequest},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{NewForbiddenError("not yours"), http.StatusForbidden},
		{NewNotFoundError("gone"), http.StatusNotFound},
		{NewConflictError("user has reports"), http.StatusConflict},
		{NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("%s HTTPStatus() = %d, want %d", tt.err.Code, got, tt.want)
		}
	}
}

func TestAsAppError(t *testing.T) {
	original := NewConflictError("taken")
	if got := AsAppError(original); got != original {
		t.Errorf("AsAppError() rewrapped an AppError")
	}

	wrapped := AsAppError(errors.New("driver exploded"))
	if wrapped.Code != CodeInternal {
		t.Errorf("plain error mapped to %q, want %q", wrapped.Code, CodeInternal)
	}
	if wrapped.Message != ErrInternalServer {
		t.Errorf("plain error message leaked: %q", wrapped.Message)
	}
}
