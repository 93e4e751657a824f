package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "resource not found",
			},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeStorage,
				Message: "read credentials",
				Cause:   errors.New("permission denied"),
			},
			want: "read credentials: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
		msg  string
	}{
		{"auth rejected", AuthRejected("bad password"), ErrCodeAuthRejected, "bad password"},
		{"service unavailable", ServiceUnavailable("down"), ErrCodeServiceUnavailable, "down"},
		{"storage", Storage("keychain locked"), ErrCodeStorage, "keychain locked"},
		{"not found", NotFoundf("room %d not found", 12), ErrCodeNotFound, "room 12 not found"},
		{"validation", Validationf("%s is required", "title"), ErrCodeValidation, "title is required"},
		{"internal literal percent", Internal("100% broken"), ErrCodeInternal, "100% broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.msg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.msg)
			}
		})
	}

	if AuthRejected("x").Status != 401 {
		t.Errorf("AuthRejected should carry status 401")
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("username", "username is required")
	if err.Code != ErrCodeValidation {
		t.Errorf("ValidationField().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if GetField(err) != "username" {
		t.Errorf("GetField() = %v, want username", GetField(err))
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, ErrCodeStorage, "write credentials")
	if err.Code != ErrCodeStorage {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeStorage)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrap() should preserve cause")
	}

	if Wrap(nil, ErrCodeStorage, "x") != nil {
		t.Errorf("Wrap(nil) should return nil")
	}
	if Wrapf(nil, ErrCodeStorage, "x %d", 1) != nil {
		t.Errorf("Wrapf(nil) should return nil")
	}
}

func TestPredicates_ThroughWrapping(t *testing.T) {
	base := AuthRejected("rejected")
	wrapped := fmt.Errorf("sign in: %w", base)

	if !IsAuthRejected(wrapped) {
		t.Errorf("IsAuthRejected should see through fmt.Errorf wrapping")
	}
	if IsServiceUnavailable(wrapped) {
		t.Errorf("auth rejection is not unavailability")
	}
	if GetCode(wrapped) != ErrCodeAuthRejected {
		t.Errorf("GetCode() = %v", GetCode(wrapped))
	}
	if GetStatus(wrapped) != 401 {
		t.Errorf("GetStatus() = %v, want 401", GetStatus(wrapped))
	}

	timeout := &AppError{Code: ErrCodeTimeout, Message: "slow"}
	if !IsServiceUnavailable(timeout) || !IsTimeout(timeout) {
		t.Errorf("timeouts should count as unavailable")
	}

	plain := errors.New("plain")
	if IsStorage(plain) || IsNotFound(plain) || IsValidation(plain) || IsCanceled(plain) ||
		IsInternal(plain) || IsIdentityUnavailable(plain) {
		t.Errorf("plain errors carry no code")
	}
	if GetCode(plain) != "" || GetStatus(plain) != 0 || GetField(plain) != "" {
		t.Errorf("plain errors should yield zero values")
	}
}
