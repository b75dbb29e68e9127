package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Statuses lists the appointment lifecycle states.
var Statuses = []string{StatusScheduled, StatusCheckedIn, StatusCompleted, StatusCancelled}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Appointment is one scheduled visit.
type Appointment struct {
	ID        uuid.UUID  `json:"id"`
	Tenant    uuid.UUID  `json:"tenant"`
	Patient   uuid.UUID  `json:"patient"`
	Staff     *uuid.UUID `json:"staff,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Location  string     `json:"location,omitempty"`
	Status    string     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AppointmentRequest is the create/update payload. Date accepts RFC 3339 or
// the datetime-local form YYYY-MM-DDTHH:MM.
type AppointmentRequest struct {
	Patient  string `json:"patient"`
	Staff    string `json:"staff"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Status   string `json:"status"`
	Reason   string `json:"reason"`
}
