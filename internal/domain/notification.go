package domain

// Category tags a notification with the lifecycle event that produced it.
type Category string

const (
	CategoryNewBooking   Category = "new_booking"
	CategoryReschedule   Category = "reschedule"
	CategoryCancellation Category = "cancellation"
	CategoryReassignment Category = "reassignment"
)

// SchedulePath is the staff dashboard path every notification links
// back to. Deep links append the affected appointment id to it.
const SchedulePath = "/staff?tab=schedule"

// NotificationEvent is the ephemeral product of the composer: one
// notification addressed to one staff member. AppointmentID is empty
// when the recipient is losing visibility into the appointment (their
// "removed from schedule" notice), so the click lands on the schedule
// overview instead of a record they can no longer see.
type NotificationEvent struct {
	StaffID       string
	Title         string
	Body          string
	AppointmentID string
	Category      Category
}

// DeepLink builds the notification target URL. The schedule path
// already carries a query string, so the appointment id rides along as
// an extra parameter.
func DeepLink(appointmentID string) string {
	if appointmentID == "" {
		return SchedulePath
	}
	return SchedulePath + "&appointmentId=" + appointmentID
}
