package enums

import (
	"fmt"
	"strings"
)

// AppointmentStatus tracks a booked visit from scheduling to completion.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
	AppointmentStatusNoShow,
}

// String implements fmt.Stringer.
func (a AppointmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (a AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAppointmentStatus converts raw input into a AppointmentStatus, ignoring case.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
