//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTaskTitleLen = 120

// TaskStatus is the lifecycle state of a housekeeping task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// Valid reports whether the task status is supported.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress, TaskStatusDone, TaskStatusBlocked:
		return true
	default:
		return false
	}
}

// ParseTaskStatus normalizes a status string and reports whether it is supported.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	s := TaskStatus(strings.ToUpper(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// TaskType classifies the work a task requires.
type TaskType string

const (
	TaskTypeTurnover   TaskType = "TURNOVER"
	TaskTypeDeepClean  TaskType = "DEEP_CLEAN"
	TaskTypeAmenities  TaskType = "AMENITIES"
	TaskTypeInspection TaskType = "INSPECTION"
)

// TaskPriority orders tasks in the cleaner's list.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// ChecklistItem is one line of a task checklist.
type ChecklistItem struct {
	ID          int        `json:"id"                     yaml:"id"`
	Task        int        `json:"task"                   yaml:"task"`
	Text        string     `json:"text"                   yaml:"text"`
	IsCompleted bool       `json:"is_completed"           yaml:"is_completed"`
	PhotoBefore *string    `json:"photo_before,omitempty" yaml:"photo_before,omitempty"`
	PhotoAfter  *string    `json:"photo_after,omitempty"  yaml:"photo_after,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Task is a housekeeping task as served by /tasks/.
type Task struct {
	ID           int             `json:"id"                      yaml:"id"`
	Room         int             `json:"room"                    yaml:"room"`
	Title        string          `json:"title"                   yaml:"title"`
	Description  string          `json:"description"             yaml:"description"`
	TaskType     TaskType        `json:"task_type"               yaml:"task_type"`
	Priority     TaskPriority    `json:"priority"                yaml:"priority"`
	Status       TaskStatus      `json:"status"                  yaml:"status"`
	AssignedTo   *int            `json:"assigned_to,omitempty"   yaml:"assigned_to,omitempty"`
	ScheduledFor *string         `json:"scheduled_for,omitempty" yaml:"scheduled_for,omitempty"`
	StartedAt    *time.Time      `json:"started_at,omitempty"    yaml:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"   yaml:"finished_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"              yaml:"created_at"`
	Checklist    []ChecklistItem `json:"checklist,omitempty"     yaml:"checklist,omitempty"`
}

// CreateTaskRequest is the multipart payload for creating a task.
type CreateTaskRequest struct {
	Room        int
	Title       string
	Description string
	TaskType    TaskType
	Priority    TaskPriority
	// PhotoPath optionally attaches an image as the "photo" part.
	PhotoPath string
}

// Validate checks the request before it is sent.
func (r *CreateTaskRequest) Validate() error {
	if r.Room <= 0 {
		return errors.New("room is required")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required")
	}
	if utf8.RuneCountInString(title) > maxTaskTitleLen {
		return errors.New("title cannot exceed 120 characters")
	}
	return nil
}

// Fields returns the non-file form fields of the request.
func (r *CreateTaskRequest) Fields() map[string]string {
	fields := map[string]string{
		"room":  itoa(r.Room),
		"title": strings.TrimSpace(r.Title),
	}
	if r.Description != "" {
		fields["description"] = r.Description
	}
	if r.TaskType != "" {
		fields["task_type"] = string(r.TaskType)
	}
	if r.Priority != "" {
		fields["priority"] = string(r.Priority)
	}
	return fields
}
