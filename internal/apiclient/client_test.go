package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	"github.com/JotaC95/HotelApp/internal/domain/model"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
	"github.com/JotaC95/HotelApp/internal/testutil"
)

func newTestClient(t *testing.T, api *testutil.FakeAPI) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: api.URL(), Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://10.0.2.2:8000", "http://10.0.2.2:8000/api/housekeeping"},
		{"http://10.0.2.2:8000///", "http://10.0.2.2:8000/api/housekeeping"},
		{"http://host/api/housekeeping", "http://host/api/housekeeping"},
		{"http://host/api/housekeeping/", "http://host/api/housekeeping"},
		{" https://host ", "https://host/api/housekeeping"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestNew_RejectsInvalidBase(t *testing.T) {
	_, err := New(Config{BaseURL: "ftp://host"})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "http://"})
	require.Error(t, err)
}

func TestClient_AuthorizationHeader(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddUser("maria", "pw")
	c := newTestClient(t, api)
	ctx := context.Background()

	err := c.Probe(ctx, PathRooms)
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthRejected(err))

	creds := domainauth.Credentials{Username: "maria", Password: "pw"}
	c.SetAuthorization(creds.BasicAuthorization())
	require.NoError(t, c.Probe(ctx, PathRooms))

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Empty(t, reqs[0].Authorization)
	assert.Equal(t, creds.BasicAuthorization(), reqs[1].Authorization)
	assert.NotEmpty(t, reqs[1].RequestID)
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)

	c.SetAuthorization("")
	assert.Empty(t, c.Authorization())
}

func TestClient_ClassifiesStatuses(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/boom/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusInternalServerError, nil)
	})
	api.Handle(http.MethodGet, "/forbidden/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusForbidden, nil)
	})
	api.Handle(http.MethodPost, "/bad/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusBadRequest, map[string]string{"title": "required"})
	})
	c := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.Do(ctx, Request{Path: "/boom/"})
	assert.True(t, apperrors.IsServiceUnavailable(err))
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatus(err))

	_, err = c.Do(ctx, Request{Path: "/forbidden/"})
	assert.True(t, apperrors.IsServiceUnavailable(err))

	_, err = c.Do(ctx, Request{Path: "/missing/"})
	assert.True(t, apperrors.IsNotFound(err))

	err = c.PostJSON(ctx, "/bad/", map[string]string{}, nil)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "required")
}

func TestClient_NetworkErrorIsServiceUnavailable(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)

	err = c.Probe(context.Background(), PathRooms)
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceUnavailable(err))
}

func TestClient_CanceledContext(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newTestClient(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Probe(ctx, PathRooms)
	require.Error(t, err)
	assert.True(t, apperrors.IsCanceled(err))
}

func TestClient_Interceptors(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newTestClient(t, api)
	ctx := context.Background()

	var mu sync.Mutex
	var events []ResponseEvent
	remove := c.AddInterceptor(func(ev ResponseEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	_ = c.Probe(ctx, PathRooms)
	_, _ = c.Do(ctx, Request{Path: PathRooms})

	remove()
	remove()
	_ = c.Probe(ctx, PathRooms)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.True(t, events[0].Probe)
	assert.False(t, events[1].Probe)
	assert.Equal(t, http.StatusUnauthorized, events[1].Status)
	assert.Equal(t, PathRooms, events[1].Path)
}

func TestClient_CookiesResetOnAuthorizationChange(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, "/cookie/", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
		testutil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	var seen []string
	api.Handle(http.MethodGet, "/echo/", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("sessionid"); err == nil {
			seen = append(seen, ck.Value)
		} else {
			seen = append(seen, "")
		}
		testutil.WriteJSON(w, http.StatusOK, nil)
	})
	c := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.Do(ctx, Request{Path: "/cookie/"})
	require.NoError(t, err)
	_, err = c.Do(ctx, Request{Path: "/echo/"})
	require.NoError(t, err)

	c.SetAuthorization("Basic eDp5")
	_, err = c.Do(ctx, Request{Path: "/echo/"})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc", ""}, seen)
}

func TestClient_CreateTaskMultipart(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodPost, PathTasks, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("photo")
		assert.NoError(t, err)
		testutil.WriteJSON(w, http.StatusCreated, map[string]any{
			"id":     9,
			"room":   r.FormValue("room"),
			"title":  r.FormValue("title"),
			"status": "PENDING",
		})
	})
	c := newTestClient(t, api)

	photo := filepath.Join(t.TempDir(), "before.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o600))

	_, err := c.CreateTask(context.Background(), model.CreateTaskRequest{Room: 3, Title: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, api.Count(http.MethodPost, PathTasks))

	// The fake encodes room back as a string; decode into a map to assert.
	var raw map[string]any
	err = c.PostForm(context.Background(), PathTasks,
		map[string]string{"room": "3", "title": "Towels"},
		[]FilePart{{Field: "photo", Path: photo}}, &raw)
	require.NoError(t, err)
	assert.Equal(t, "Towels", raw["title"])
}

func TestClient_ResourceHelpers(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Handle(http.MethodGet, PathRooms, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DIRTY", r.URL.Query().Get("status"))
		testutil.WriteJSON(w, http.StatusOK, []model.Room{{ID: 1, Number: "101", Status: model.RoomStatusDirty}})
	})
	api.Handle(http.MethodPatch, "/tasks/4/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, model.Task{ID: 4, Status: model.TaskStatusDone})
	})
	api.Handle(http.MethodGet, PathMyWeek, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-08-25", r.URL.Query().Get("monday"))
		testutil.WriteJSON(w, http.StatusOK, model.MyWeek{Days: []model.WeekDay{{Date: "2025-08-25"}}})
	})
	api.Handle(http.MethodGet, PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, model.Health{Status: "ok"})
	})
	api.Handle(http.MethodPut, "/staff/2/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		testutil.WriteJSON(w, http.StatusOK, body)
	})
	c := newTestClient(t, api)
	ctx := context.Background()

	var echoed map[string]any
	require.NoError(t, c.PutJSON(ctx, "/staff/2/", map[string]any{"is_available": true}, &echoed))
	assert.Equal(t, true, echoed["is_available"])

	status := model.RoomStatusDirty
	rooms, err := c.ListRooms(ctx, model.RoomsListOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].Number)

	task, err := c.UpdateTaskStatus(ctx, 4, model.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusDone, task.Status)

	_, err = c.UpdateTaskStatus(ctx, 4, model.TaskStatus("NOPE"))
	assert.True(t, apperrors.IsValidation(err))

	week, err := c.MyWeek(ctx, "2025-08-25")
	require.NoError(t, err)
	assert.Len(t, week.Days, 1)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestClient_WithProbeMarksEvents(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newTestClient(t, api)

	var probes []bool
	c.AddInterceptor(func(ev ResponseEvent) { probes = append(probes, ev.Probe) })

	_, _ = c.Me(WithProbe(context.Background()))
	_, _ = c.Me(context.Background())

	assert.Equal(t, []bool{true, false}, probes)
}
