package domain

import "fmt"

// MutationKind identifies which lifecycle operation produced a change.
type MutationKind string

const (
	MutationCreate     MutationKind = "create"
	MutationReschedule MutationKind = "reschedule"
	MutationCancel     MutationKind = "cancel"
	MutationMove       MutationKind = "move"
)

// Compose turns one appointment mutation into the notifications it
// owes. It is a pure function: the appointment snapshot is the
// post-mutation state, oldStaffID is the pre-mutation owner ("" when
// unknown), and the staff index is used only for display names.
//
// Reassignment semantics: when the responsible staff actually changed,
// the receiving staff gets an update deep-linked to the appointment and
// the relinquishing staff gets a "removed" notice with no deep link,
// since the record left their view. When the staff is unchanged, only
// the update is produced.
func Compose(kind MutationKind, appt Appointment, oldStaffID string, staff StaffIndex) []NotificationEvent {
	switch kind {
	case MutationCreate:
		return []NotificationEvent{{
			StaffID:       appt.StaffID,
			Title:         "New Booking",
			Body:          fmt.Sprintf("%s booked an appointment on %s at %s.", appt.ClientName, appt.Date, appt.TimeSlot),
			AppointmentID: appt.ID,
			Category:      CategoryNewBooking,
		}}

	case MutationReschedule:
		events := []NotificationEvent{{
			StaffID:       appt.StaffID,
			Title:         "Appointment Rescheduled",
			Body:          fmt.Sprintf("%s's appointment moved to %s at %s.", appt.ClientName, appt.Date, appt.TimeSlot),
			AppointmentID: appt.ID,
			Category:      CategoryReschedule,
		}}
		if removed, ok := removedNotice(appt, oldStaffID, staff); ok {
			events = append(events, removed)
		}
		return events

	case MutationCancel:
		return []NotificationEvent{{
			StaffID:       appt.StaffID,
			Title:         "Appointment Cancelled",
			Body:          fmt.Sprintf("%s's appointment on %s at %s was cancelled.", appt.ClientName, appt.Date, appt.TimeSlot),
			AppointmentID: appt.ID,
			Category:      CategoryCancellation,
		}}

	case MutationMove:
		events := []NotificationEvent{{
			StaffID:       appt.StaffID,
			Title:         "Schedule Updated",
			Body:          fmt.Sprintf("%s is now scheduled on %s at %s.", appt.ClientName, appt.Date, appt.TimeSlot),
			AppointmentID: appt.ID,
			Category:      CategoryReschedule,
		}}
		if removed, ok := removedNotice(appt, oldStaffID, staff); ok {
			events = append(events, removed)
		}
		return events
	}

	return nil
}

// removedNotice builds the prior-staff notification for a reassignment.
// It carries no appointment id: the recipient lost visibility, so the
// deep link would dead-end.
func removedNotice(appt Appointment, oldStaffID string, staff StaffIndex) (NotificationEvent, bool) {
	if oldStaffID == "" || oldStaffID == appt.StaffID {
		return NotificationEvent{}, false
	}
	return NotificationEvent{
		StaffID:  oldStaffID,
		Title:    "Appointment Reassigned",
		Body:     fmt.Sprintf("%s's appointment was moved to %s.", appt.ClientName, staff.Name(appt.StaffID)),
		Category: CategoryReassignment,
	}, true
}
