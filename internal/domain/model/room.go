//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

// RoomStatus is the housekeeping state of a room.
type RoomStatus string

const (
	RoomStatusDirty      RoomStatus = "DIRTY"
	RoomStatusCleaning   RoomStatus = "CLEANING"
	RoomStatusClean      RoomStatus = "CLEAN"
	RoomStatusInspection RoomStatus = "INSPECTION"
	RoomStatusOutOfOrder RoomStatus = "OOO"
)

// Valid reports whether the room status is supported by the API.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusDirty, RoomStatusCleaning, RoomStatusClean, RoomStatusInspection, RoomStatusOutOfOrder:
		return true
	default:
		return false
	}
}

// ParseRoomStatus normalizes a status string and reports whether it is supported.
func ParseRoomStatus(value string) (RoomStatus, bool) {
	s := RoomStatus(strings.ToUpper(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Room is a hotel room as served by /rooms/.
type Room struct {
	ID     int        `json:"id"     yaml:"id"`
	Number string     `json:"number" yaml:"number"`
	Floor  int        `json:"floor"  yaml:"floor"`
	Zone   string     `json:"zone"   yaml:"zone"`
	Status RoomStatus `json:"status" yaml:"status"`
	Notes  string     `json:"notes"  yaml:"notes"`
}

// RoomsListOptions filters the room listing.
type RoomsListOptions struct {
	Status *RoomStatus
	Floor  *int
	Zone   *string
}

// StaffAvailability is the live availability record of a staff member.
type StaffAvailability struct {
	ID          int     `json:"id"                  yaml:"id"`
	User        int     `json:"user"                yaml:"user"`
	IsAvailable bool    `json:"is_available"        yaml:"is_available"`
	Lat         *string `json:"lat,omitempty"       yaml:"lat,omitempty"`
	Lon         *string `json:"lon,omitempty"       yaml:"lon,omitempty"`
	LastSeen    string  `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`
}

// Me is the payload returned by the identity endpoint.
type Me struct {
	ID          int      `json:"id"           yaml:"id"`
	Username    string   `json:"username"     yaml:"username"`
	FirstName   string   `json:"first_name"   yaml:"first_name"`
	LastName    string   `json:"last_name"    yaml:"last_name"`
	Email       string   `json:"email"        yaml:"email"`
	IsStaff     bool     `json:"is_staff"     yaml:"is_staff"`
	IsSuperuser bool     `json:"is_superuser" yaml:"is_superuser"`
	Groups      []string `json:"groups"       yaml:"groups"`
}

// Health is returned by the unauthenticated /api/health endpoint.
type Health struct {
	Status  string `json:"status"  yaml:"status"`
	Service string `json:"service" yaml:"service"`
	Version string `json:"version" yaml:"version"`
}
