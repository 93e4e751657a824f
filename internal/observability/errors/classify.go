package errors

import (
	goerrors "errors"
	"log/slog"
	"reflect"
	"strings"

	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// Classify returns a normalized error class suitable for tagging metrics/logs.
// Application errors report their code; anything else is named after the
// innermost concrete error type, converted to snake_case-ish.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

// Attrs returns the standard log attributes for err.
func Attrs(err error) []any {
	if err == nil {
		return nil
	}
	attrs := []any{slog.Any("error", err), slog.String("error_class", Classify(err))}
	if status := apperrors.GetStatus(err); status != 0 {
		attrs = append(attrs, slog.Int("status", status))
	}
	return attrs
}
