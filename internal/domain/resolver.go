package domain

import "context"

// RecipientResolver maps a staff id to the recipient id its push
// subscriptions are filed under.
type RecipientResolver struct {
	staff StaffRepository
}

func NewRecipientResolver(staff StaffRepository) *RecipientResolver {
	return &RecipientResolver{staff: staff}
}

// Resolve returns the staff member's linked user id when present,
// otherwise the staff id unchanged. The fallback is intentional: the
// fan-out runs the same subscription lookup either way, and an
// unlinked staff member simply yields zero subscriptions rather than a
// resolver error.
func (r *RecipientResolver) Resolve(ctx context.Context, staffID string) string {
	st, err := r.staff.GetStaffByID(ctx, staffID)
	if err != nil || st.UserID == "" {
		return staffID
	}
	return st.UserID
}
