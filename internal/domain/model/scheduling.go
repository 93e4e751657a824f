//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strconv"
	"time"
)

// DateLayout is the API's calendar date format.
const DateLayout = "2006-01-02"

// Zone is a named area of the hotel.
type Zone struct {
	ID   int    `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Team is a group of staff scheduled together.
type Team struct {
	ID                 int    `json:"id"                  yaml:"id"`
	Name               string `json:"name"                yaml:"name"`
	Members            []int  `json:"members"             yaml:"members"`
	CompatibilityScore int    `json:"compatibility_score" yaml:"compatibility_score"`
}

// Roster is a week of shifts.
type Roster struct {
	ID          int       `json:"id"           yaml:"id"`
	WeekStart   string    `json:"week_start"   yaml:"week_start"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	IsPublished bool      `json:"is_published" yaml:"is_published"`
	Version     int       `json:"version"      yaml:"version"`
}

// Shift is one block of scheduled work.
type Shift struct {
	ID             int    `json:"id"              yaml:"id"`
	Roster         int    `json:"roster"          yaml:"roster"`
	Date           string `json:"date"            yaml:"date"`
	Start          string `json:"start"           yaml:"start"`
	End            string `json:"end"             yaml:"end"`
	Zone           *int   `json:"zone,omitempty"  yaml:"zone,omitempty"`
	Team           *int   `json:"team,omitempty"  yaml:"team,omitempty"`
	PlannedMinutes int    `json:"planned_minutes" yaml:"planned_minutes"`
}

// AvailabilityRule is a weekly availability window (weekday 0 = Monday).
type AvailabilityRule struct {
	ID             int    `json:"id,omitempty"    yaml:"id,omitempty"`
	User           int    `json:"user,omitempty"  yaml:"user,omitempty"`
	Weekday        int    `json:"weekday"         yaml:"weekday"`
	Start          string `json:"start"           yaml:"start"`
	End            string `json:"end"             yaml:"end"`
	PreferredShift string `json:"preferred_shift" yaml:"preferred_shift"`
	IsUnavailable  bool   `json:"is_unavailable"  yaml:"is_unavailable"`
}

// Validate checks the weekday range and that both times are set.
func (r *AvailabilityRule) Validate() error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return errors.New("weekday must be between 0 and 6")
	}
	if r.Start == "" || r.End == "" {
		return errors.New("start and end are required")
	}
	return nil
}

// WeekShift is the shift part of a my-week row.
type WeekShift struct {
	Start          string  `json:"start"           yaml:"start"`
	End            string  `json:"end"             yaml:"end"`
	Zone           *string `json:"zone"            yaml:"zone"`
	Team           *string `json:"team"            yaml:"team"`
	PlannedMinutes int     `json:"planned_minutes" yaml:"planned_minutes"`
}

// WeekDay is one row of the my-week table; Shift is nil on days off.
type WeekDay struct {
	Date  string     `json:"date"  yaml:"date"`
	Shift *WeekShift `json:"shift" yaml:"shift"`
}

// MyWeek is the payload of /scheduling/my_week.
type MyWeek struct {
	Days []WeekDay `json:"days" yaml:"days"`
}

// SupervisorSummary is the payload of /scheduling/supervisor/summary/.
type SupervisorSummary struct {
	Date             string         `json:"date"              yaml:"date"`
	RoomsSummary     map[string]int `json:"rooms_summary"     yaml:"rooms_summary"`
	ShiftsToday      int            `json:"shifts_today"      yaml:"shifts_today"`
	UnassignedShifts int            `json:"unassigned_shifts" yaml:"unassigned_shifts"`
	UnassignedTasks  int            `json:"unassigned_tasks"  yaml:"unassigned_tasks"`
	OpenIncidents    int            `json:"open_incidents"    yaml:"open_incidents"`
}

// GenerateRosterRequest is the body of the AI roster generation call.
type GenerateRosterRequest struct {
	WeekStart string         `json:"week_start"`
	Rules     map[string]any `json:"rules,omitempty"`
	DryRun    bool           `json:"dry_run"`
}

// GenerateRosterResult is returned by the generation call. A dry run carries
// only Plan; otherwise Roster and Shifts describe the persisted version.
type GenerateRosterResult struct {
	DryRun bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Plan   map[string]any `json:"plan,omitempty"    yaml:"plan,omitempty"`
	Roster *Roster        `json:"roster,omitempty"  yaml:"roster,omitempty"`
	Shifts []Shift        `json:"shifts,omitempty"  yaml:"shifts,omitempty"`
}

// Validate checks that WeekStart is a calendar date.
func (r *GenerateRosterRequest) Validate() error {
	if r.WeekStart == "" {
		return errors.New("week_start is required (YYYY-MM-DD)")
	}
	if _, err := time.Parse(DateLayout, r.WeekStart); err != nil {
		return errors.New("week_start must use YYYY-MM-DD")
	}
	return nil
}

// MondayOf returns the Monday of the week containing t, formatted as a date.
func MondayOf(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DateLayout)
}

func itoa(i int) string { return strconv.Itoa(i) }
