package domain

import "sync"

// ScheduleBoard is the dashboard's local copy of the schedule. It is
// owned by the mutation layer: drag/drop moves are applied to it
// optimistically before the backend confirms, and Load (the
// authoritative reload) supersedes whatever optimistic values it holds.
type ScheduleBoard struct {
	mu           sync.RWMutex
	appointments map[string]Appointment
	staff        StaffIndex
}

func NewScheduleBoard() *ScheduleBoard {
	return &ScheduleBoard{
		appointments: make(map[string]Appointment),
		staff:        make(StaffIndex),
	}
}

// Load replaces the board's contents with the authoritative listing.
func (b *ScheduleBoard) Load(appointments []*Appointment, roster []*Staff) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.appointments = make(map[string]Appointment, len(appointments))
	for _, appt := range appointments {
		if appt == nil {
			continue
		}
		b.appointments[appt.ID] = *appt
	}
	b.staff = NewStaffIndex(roster)
}

// Get returns the board's current snapshot of one appointment.
func (b *ScheduleBoard) Get(id string) (Appointment, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	appt, ok := b.appointments[id]
	return appt, ok
}

// Appointments returns a copy of the current schedule.
func (b *ScheduleBoard) Appointments() []Appointment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Appointment, 0, len(b.appointments))
	for _, appt := range b.appointments {
		out = append(out, appt)
	}
	return out
}

// Staff returns the roster index built by the last Load.
func (b *ScheduleBoard) Staff() StaffIndex {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.staff
}

// ApplyMove updates an appointment's slot and owner in place, before
// the network mutation resolves, so the view reflects the drop with no
// perceived latency. Returns false when the appointment is not on the
// board; the caller treats that as a cache miss, not an error.
func (b *ScheduleBoard) ApplyMove(id, date, timeSlot, staffID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	appt, ok := b.appointments[id]
	if !ok {
		return false
	}
	appt.Date = date
	appt.TimeSlot = timeSlot
	appt.StaffID = staffID
	b.appointments[id] = appt
	return true
}
