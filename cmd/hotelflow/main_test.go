package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/JotaC95/HotelApp/config"
	"github.com/JotaC95/HotelApp/internal/bootstrap"
	domainauth "github.com/JotaC95/HotelApp/internal/domain/auth"
	"github.com/JotaC95/HotelApp/internal/domain/model"
	mocksauth "github.com/JotaC95/HotelApp/internal/mocks/auth"
	"github.com/JotaC95/HotelApp/internal/testutil"
)

type cliHarness struct {
	api   *testutil.FakeAPI
	store *mocksauth.MemoryCredentialStore
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	return &cliHarness{
		api:   testutil.NewFakeAPI(t),
		store: mocksauth.NewMemoryCredentialStore(nil),
	}
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func (h *cliHarness) run(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := runWith(ctx, args, strings.NewReader(stdin), &stdout, &stderr, runOptions{
		deps: bootstrap.SessionDeps{Store: h.store},
		loader: func() (config.AppConfig, error) {
			cfg := config.AppConfig{API: config.APIConfig{BaseURL: h.api.URL(), Timeout: 2 * time.Second}}
			cfg.Sanitize()
			return cfg, nil
		},
	})
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *cliHarness) signedInAs(t *testing.T, username, password string, groups ...string) {
	t.Helper()
	h.api.AddUser(username, password, groups...)
	require.NoError(t, h.store.Save(context.Background(), domainauth.Credentials{Username: username, Password: password}))
}

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run(t, "")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "Usage: hotelflow")

	res = h.run(t, "", "frobnicate")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)

	res = h.run(t, "", "help")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "roster-generate")

	res = h.run(t, "", "-output", "xml", "status")
	assert.Equal(t, exitUsage, res.code)
}

func TestLogin_Success(t *testing.T) {
	h := newCLIHarness(t)
	h.api.AddUser("maria", "pw", "supervisor")

	res := h.run(t, "", "login", "-u", "maria", "-p", "pw")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Signed in as maria (Supervisor)")
	assert.Equal(t, &domainauth.Credentials{Username: "maria", Password: "pw"}, h.store.Stored())
}

func TestLogin_PromptsForMissingValues(t *testing.T) {
	h := newCLIHarness(t)
	h.api.AddUser("ana", "secret")

	res := h.run(t, "ana\nsecret\n", "login")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Username: ")
	assert.Contains(t, res.stderr, "Password: ")
	assert.Contains(t, res.stdout, "Signed in as ana (Cleaner)")
}

func TestLogin_BadPassword(t *testing.T) {
	h := newCLIHarness(t)
	h.api.AddUser("maria", "pw")

	res := h.run(t, "", "login", "-u", "maria", "-p", "nope")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "invalid username or password")
	assert.Nil(t, h.store.Stored())
}

func TestLogin_ServerDown(t *testing.T) {
	h := newCLIHarness(t)
	h.api.Server.Close()

	res := h.run(t, "", "login", "-u", "maria", "-p", "pw")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "could not reach the HotelFlow server")
}

func TestCommandsRequireSession(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run(t, "", "rooms")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "not signed in")
}

func TestStatusAndWhoami(t *testing.T) {
	h := newCLIHarness(t)

	res := h.run(t, "", "-output", "json", "status")
	require.Equal(t, exitOK, res.code, res.stderr)
	var out sessionOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.True(t, out.Ready)
	assert.False(t, out.Authenticated)
	assert.True(t, strings.HasSuffix(out.Server, "/api/housekeeping"), out.Server)

	h.signedInAs(t, "maria", "pw", "maintenance")
	res = h.run(t, "", "-output", "yaml", "whoami")
	require.Equal(t, exitOK, res.code, res.stderr)
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &out))
	assert.True(t, out.Authenticated)
	require.NotNil(t, out.Role)
	assert.Equal(t, "MAINTENANCE", *out.Role)
	require.NotNil(t, out.Username)
	assert.Equal(t, "maria", *out.Username)
}

func TestLogout(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw")

	res := h.run(t, "", "logout")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Signed out")
	assert.Nil(t, h.store.Stored())
}

func TestRooms_JSONAndFilter(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw")
	h.api.Handle(http.MethodGet, "/rooms/", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.api.Authenticated(r); !ok {
			testutil.WriteJSON(w, http.StatusUnauthorized, nil)
			return
		}
		testutil.WriteJSON(w, http.StatusOK, []model.Room{
			{ID: 1, Number: "101", Floor: 1, Zone: "North", Status: model.RoomStatusDirty},
		})
	})

	res := h.run(t, "", "-output", "json", "rooms", "-status", "dirty")
	require.Equal(t, exitOK, res.code, res.stderr)
	var rooms []model.Room
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].Number)

	var filtered bool
	for _, r := range h.api.Requests() {
		if r.Path == "/rooms/" && r.Query == "status=DIRTY" {
			filtered = true
		}
	}
	assert.True(t, filtered, "status filter sent upstream")

	res = h.run(t, "", "rooms", "-status", "sparkly")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "invalid room status")
}

func TestRoomStatus_Table(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw")
	h.api.Handle(http.MethodPatch, "/rooms/7/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		testutil.WriteJSON(w, http.StatusOK, model.Room{ID: 7, Number: "207", Status: model.RoomStatus(body["status"])})
	})

	res := h.run(t, "", "room-status", "7", "clean")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "207")
	assert.Contains(t, res.stdout, "CLEAN")

	res = h.run(t, "", "room-status", "7")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "usage: hotelflow room-status")
}

func TestRevokedSessionIsReported(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw")
	h.api.Handle(http.MethodGet, "/tasks/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})

	res := h.run(t, "", "tasks", "-room", "3")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "run 'hotelflow login'")
	assert.Nil(t, h.store.Stored(), "401 on a regular request clears stored credentials")
}

func TestSupervisorCommandsAreGated(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "carla", "pw", "cleaner")

	res := h.run(t, "", "dashboard")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "dashboard is only available to Supervisor")
	assert.Equal(t, 0, h.api.Count(http.MethodGet, "/scheduling/supervisor/summary/"))
}

func TestDashboard(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw", "supervisor")
	h.api.Handle(http.MethodGet, "/scheduling/supervisor/summary/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, model.SupervisorSummary{
			Date:         "2026-10-14",
			RoomsSummary: map[string]int{"DIRTY": 4, "CLEAN": 10},
			ShiftsToday:  6,
		})
	})
	h.api.Handle(http.MethodGet, "/scheduling/shifts/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, []model.Shift{{ID: 1, Roster: 2, Date: "2026-10-14", Start: "08:00", End: "16:00", PlannedMinutes: 480}})
	})
	h.api.Handle(http.MethodGet, "/scheduling/zones/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, []model.Zone{{ID: 1, Name: "North"}})
	})
	h.api.Handle(http.MethodGet, "/scheduling/teams/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, []model.Team{{ID: 1, Name: "Alpha", Members: []int{1, 2}}})
	})

	res := h.run(t, "", "dashboard")
	require.Equal(t, exitOK, res.code, res.stderr)
	for _, want := range []string{"2026-10-14", "DIRTY", "8h", "North", "Alpha"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestRosterGenerate_DryRun(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "maria", "pw", "supervisor")
	var got model.GenerateRosterRequest
	h.api.Handle(http.MethodPost, "/scheduling/rosters/ai/generate/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		testutil.WriteJSON(w, http.StatusOK, map[string]any{"dry_run": true, "plan": map[string]any{"shifts": 12}})
	})

	res := h.run(t, "", "roster-generate", "-week", "2026-10-12", "-dry-run", "-rules", `{"max_minutes":480}`)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "shifts")
	assert.Equal(t, "2026-10-12", got.WeekStart)
	assert.True(t, got.DryRun)
	assert.InDelta(t, 480, got.Rules["max_minutes"], 0)

	res = h.run(t, "", "roster-generate", "-week", "12/10/2026")
	assert.Equal(t, exitError, res.code)
}

func TestMyWeek_DefaultsToCurrentMonday(t *testing.T) {
	h := newCLIHarness(t)
	h.signedInAs(t, "ana", "pw")
	zone := "North"
	h.api.Handle(http.MethodGet, "/scheduling/my_week", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, model.MyWeek{Days: []model.WeekDay{
			{Date: "2026-10-12", Shift: &model.WeekShift{Start: "08:00", End: "12:30", Zone: &zone, PlannedMinutes: 270}},
			{Date: "2026-10-13"},
		}})
	})

	res := h.run(t, "", "my-week")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "4h30m")
	assert.Contains(t, res.stdout, "off")

	want := "monday=" + model.MondayOf(time.Now())
	var sent bool
	for _, r := range h.api.Requests() {
		if r.Path == "/scheduling/my_week" && r.Query == want {
			sent = true
		}
	}
	assert.True(t, sent)
}

func TestHealthIsPublic(t *testing.T) {
	h := newCLIHarness(t)
	h.api.Handle(http.MethodGet, "/api/health/", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, model.Health{Status: "ok", Service: "hotelflow", Version: "1.0"})
	})

	res := h.run(t, "", "health")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "hotelflow 1.0 ok")
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Monday", weekdayName(0))
	assert.Equal(t, "Sunday", weekdayName(6))
	assert.Equal(t, "9", weekdayName(9))
}
