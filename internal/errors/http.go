package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

const maxBodyInMessage = 200

// FromStatus classifies a non-2xx HTTP response. It returns nil for 2xx.
// The body excerpt is only carried for 400 responses, where the API
// reports field errors.
func FromStatus(method, path string, status int, body []byte) *AppError {
	if status >= 200 && status < 300 {
		return nil
	}

	target := method + " " + path
	switch {
	case status == http.StatusUnauthorized:
		return &AppError{
			Code:    ErrCodeAuthRejected,
			Message: target + ": credentials rejected",
			Status:  status,
		}
	case status == http.StatusNotFound:
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: target + ": not found",
			Status:  status,
		}
	case status == http.StatusBadRequest:
		msg := target + ": bad request"
		if excerpt := bodyExcerpt(body); excerpt != "" {
			msg += ": " + excerpt
		}
		return &AppError{Code: ErrCodeValidation, Message: msg, Status: status}
	default:
		return &AppError{
			Code:    ErrCodeServiceUnavailable,
			Message: fmt.Sprintf("%s: unexpected status %d", target, status),
			Status:  status,
		}
	}
}

// FromTransport classifies an error returned by the HTTP transport itself
// (no response was received).
func FromTransport(method, path string, err error) *AppError {
	if err == nil {
		return nil
	}
	target := method + " " + path
	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, target+": canceled")
	case errors.Is(err, context.DeadlineExceeded) || isNetTimeout(err):
		return Wrap(err, ErrCodeTimeout, target+": timed out")
	default:
		return Wrap(err, ErrCodeServiceUnavailable, target+": request failed")
	}
}

func isNetTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func bodyExcerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxBodyInMessage {
		s = s[:maxBodyInMessage] + "..."
	}
	return s
}
