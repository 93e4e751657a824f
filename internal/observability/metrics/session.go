package metrics

import (
	"strconv"
	"time"

	apperrors "github.com/JotaC95/HotelApp/internal/errors"
	"github.com/JotaC95/HotelApp/internal/observability/statsd"
)

// Outcome tags for session metrics.
const (
	OutcomeOK          = "ok"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
	OutcomeStorage     = "storage"
	OutcomeAbsent      = "absent"
	OutcomeSuperseded  = "superseded"
	OutcomeError       = "error"
)

// OutcomeOf maps an error to its outcome tag.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case apperrors.IsAuthRejected(err):
		return OutcomeRejected
	case apperrors.IsServiceUnavailable(err):
		return OutcomeUnavailable
	case apperrors.IsStorage(err):
		return OutcomeStorage
	case apperrors.IsCanceled(err):
		return OutcomeSuperseded
	default:
		return OutcomeError
	}
}

// EmitSignIn records the outcome of a sign-in attempt.
func EmitSignIn(sink statsd.Sink, outcome string, d time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{"outcome": outcome}
	sink.Count("session.sign_in", 1, tags)
	if d > 0 {
		sink.Timing("session.sign_in.duration", d, CloneTags(tags))
	}
}

// EmitRehydrate records the outcome of startup rehydration.
func EmitRehydrate(sink statsd.Sink, outcome string) {
	if sink == nil {
		return
	}
	sink.Count("session.rehydrate", 1, map[string]string{"outcome": outcome})
}

// EmitRevoked records a 401-triggered de-authentication.
func EmitRevoked(sink statsd.Sink) {
	if sink == nil {
		return
	}
	sink.Count("session.revoked", 1, nil)
}

// EmitAuthenticated publishes the current authentication gauge (0 or 1).
func EmitAuthenticated(sink statsd.Sink, authenticated bool) {
	if sink == nil {
		return
	}
	v := 0.0
	if authenticated {
		v = 1
	}
	sink.Gauge("session.authenticated", v, nil)
}

// EmitRequest records one API round trip. status is 0 when no response arrived.
func EmitRequest(sink statsd.Sink, method string, status int, d time.Duration) {
	if sink == nil {
		return
	}
	sink.Timing("api.request", d, map[string]string{
		"method":       method,
		"status_class": StatusClass(status),
	})
}

// StatusClass buckets an HTTP status into "2xx", "4xx", ... or "none".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "none"
	}
	return strconv.Itoa(status/100) + "xx"
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
