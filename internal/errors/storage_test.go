package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFromStorage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "canceled", err: context.Canceled, want: ErrCodeCanceled},
		{name: "deadline", err: fmt.Errorf("set: %w", context.DeadlineExceeded), want: ErrCodeTimeout},
		{name: "disk", err: errors.New("no space left on device"), want: ErrCodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromStorage(tt.err, "write credentials")
			if got.Code != tt.want {
				t.Errorf("Code = %v, want %v", got.Code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("cause should be preserved")
			}
		})
	}

	if FromStorage(nil, "noop") != nil {
		t.Errorf("nil error should map to nil")
	}
}
