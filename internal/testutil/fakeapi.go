package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const housekeepingPrefix = "/api/housekeeping"

// FakeUser is an account known to the FakeAPI.
type FakeUser struct {
	Password string
	Groups   []string
}

// RecordedRequest is one request seen by the FakeAPI. Path is relative to
// the housekeeping prefix when it was present.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

// FakeAPI is an httptest server speaking the subset of the HotelFlow API the
// session layer needs. The probe path (/rooms/) and identity path
// (/accounts/me/) are served from the user table; other routes are added
// with Handle.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]FakeUser
	handlers map[string]http.HandlerFunc
	requests []RecordedRequest
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		users:    make(map[string]FakeUser),
		handlers: make(map[string]http.HandlerFunc),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the server origin; clients append /api/housekeeping themselves.
func (f *FakeAPI) URL() string { return f.Server.URL }

// AddUser registers an account.
func (f *FakeAPI) AddUser(username, password string, groups ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = FakeUser{Password: password, Groups: groups}
}

// RemoveUser deletes an account so later requests with its credentials get 401.
func (f *FakeAPI) RemoveUser(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
}

// Handle overrides or adds a route, keyed by method and housekeeping-relative path.
func (f *FakeAPI) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

// Requests returns a copy of every request seen so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// Count returns how many requests hit method and path.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Authenticated reports whether r carries Basic credentials of a known user.
func (f *FakeAPI) Authenticated(r *http.Request) (string, bool) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, found := f.users[username]
	if !found || u.Password != password {
		return "", false
	}
	return username, true
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, housekeepingPrefix)
	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
	})
	h, ok := f.handlers[r.Method+" "+path]
	f.mu.Unlock()

	if ok {
		h(w, r)
		return
	}

	switch {
	case r.Method == http.MethodGet && path == "/rooms/":
		if _, authed := f.Authenticated(r); !authed {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username/password."})
			return
		}
		WriteJSON(w, http.StatusOK, []any{})
	case r.Method == http.MethodGet && path == "/accounts/me/":
		username, authed := f.Authenticated(r)
		if !authed {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username/password."})
			return
		}
		f.mu.Lock()
		groups := f.users[username].Groups
		f.mu.Unlock()
		if groups == nil {
			groups = []string{}
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"id":       1,
			"username": username,
			"groups":   groups,
		})
	default:
		WriteJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
