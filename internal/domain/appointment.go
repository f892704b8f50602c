package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrStaffNotFound       = errors.New("staff not found")
)

// AppointmentStatus is the lifecycle state of an appointment. Cancelled
// appointments are kept as a soft state change, never deleted.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment is a booked slot on a staff member's schedule.
// Date is "2006-01-02" and TimeSlot is "15:04", matching the wire
// format the dashboard sends.
type Appointment struct {
	ID         string            `json:"id"`
	ClientName string            `json:"client_name"`
	StaffID    string            `json:"staff_id"`
	Date       string            `json:"date"`
	TimeSlot   string            `json:"time_slot"`
	Status     AppointmentStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Staff is a member of the roster. UserID links the staff record to a
// notification-capable account; it is empty when no account is linked.
type Staff struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

// StaffIndex is an id-keyed view of the roster, built once per
// dashboard load so lookups stay O(1) under larger rosters.
type StaffIndex map[string]Staff

// NewStaffIndex builds an index from a roster listing.
func NewStaffIndex(roster []*Staff) StaffIndex {
	idx := make(StaffIndex, len(roster))
	for _, st := range roster {
		if st == nil {
			continue
		}
		idx[st.ID] = *st
	}
	return idx
}

// Name returns the display name for a staff id, falling back to the id
// itself when the roster has no such member.
func (idx StaffIndex) Name(staffID string) string {
	if st, ok := idx[staffID]; ok && st.Name != "" {
		return st.Name
	}
	return staffID
}

type CreateAppointmentParams struct {
	ClientName string
	StaffID    string
	Date       string
	TimeSlot   string
}

type UpdateAppointmentParams struct {
	Date     string
	TimeSlot string
	StaffID  string
}

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, params CreateAppointmentParams) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (*Appointment, error)
	ListAppointments(ctx context.Context) ([]*Appointment, error)
	UpdateAppointmentSchedule(ctx context.Context, id string, params UpdateAppointmentParams) (*Appointment, error)
	CancelAppointment(ctx context.Context, id string) (*Appointment, error)
}

type StaffRepository interface {
	GetStaffByID(ctx context.Context, id string) (*Staff, error)
	ListStaff(ctx context.Context) ([]*Staff, error)
}
