package util

import (
	"testing"
	"time"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "-"},
		{-5, "-"},
		{45, "45m"},
		{480, "8h"},
		{450, "7h30m"},
		{65, "1h05m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{1500 * time.Microsecond, "1ms"},
		{90*time.Second + 400*time.Millisecond, "1m30s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.in); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeref(t *testing.T) {
	empty := ""
	zone := "North"
	if got := Deref(nil, "-"); got != "-" {
		t.Errorf("nil: got %q", got)
	}
	if got := Deref(&empty, "-"); got != "-" {
		t.Errorf("empty: got %q", got)
	}
	if got := Deref(&zone, "-"); got != "North" {
		t.Errorf("value: got %q", got)
	}
}
