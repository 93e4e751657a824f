package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomStatus(t *testing.T) {
	s, ok := ParseRoomStatus(" clean ")
	require.True(t, ok)
	assert.Equal(t, RoomStatusClean, s)

	_, ok = ParseRoomStatus("sparkling")
	assert.False(t, ok)
}

func TestParseTaskStatus(t *testing.T) {
	s, ok := ParseTaskStatus("in_progress")
	require.True(t, ok)
	assert.Equal(t, TaskStatusInProgress, s)

	_, ok = ParseTaskStatus("")
	assert.False(t, ok)
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTaskRequest
		wantErr string
	}{
		{name: "ok", req: CreateTaskRequest{Room: 1, Title: "Turnover 101"}},
		{name: "missing room", req: CreateTaskRequest{Title: "x"}, wantErr: "room is required"},
		{name: "blank title", req: CreateTaskRequest{Room: 1, Title: "  "}, wantErr: "title is required"},
		{
			name:    "long title",
			req:     CreateTaskRequest{Room: 1, Title: strings.Repeat("a", 121)},
			wantErr: "cannot exceed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateTaskRequest_Fields(t *testing.T) {
	req := CreateTaskRequest{Room: 7, Title: " Deep clean ", TaskType: TaskTypeDeepClean}
	fields := req.Fields()
	assert.Equal(t, "7", fields["room"])
	assert.Equal(t, "Deep clean", fields["title"])
	assert.Equal(t, "DEEP_CLEAN", fields["task_type"])
	_, hasPriority := fields["priority"]
	assert.False(t, hasPriority)
}

func TestMondayOf(t *testing.T) {
	// 2025-08-27 is a Wednesday.
	wed := time.Date(2025, 8, 27, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-08-25", MondayOf(wed))

	sun := time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-08-25", MondayOf(sun))

	mon := time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-08-25", MondayOf(mon))
}

func TestGenerateRosterRequest_Validate(t *testing.T) {
	assert.NoError(t, (&GenerateRosterRequest{WeekStart: "2025-08-25"}).Validate())
	assert.Error(t, (&GenerateRosterRequest{}).Validate())
	assert.Error(t, (&GenerateRosterRequest{WeekStart: "25/08/2025"}).Validate())
}

func TestAvailabilityRule_Validate(t *testing.T) {
	assert.NoError(t, (&AvailabilityRule{Weekday: 0, Start: "07:00", End: "15:00"}).Validate())
	assert.Error(t, (&AvailabilityRule{Weekday: 7, Start: "07:00", End: "15:00"}).Validate())
	assert.Error(t, (&AvailabilityRule{Weekday: 2}).Validate())
}
