package validator

import (
	"strings"
	"time"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var msgs []string
	for _, e := range v {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any errors
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Add adds a validation error
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// ValidateDate checks a calendar date in YYYY-MM-DD form.
func ValidateDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ValidateTimeSlot checks a slot time in HH:MM form.
func ValidateTimeSlot(slot string) bool {
	_, err := time.Parse("15:04", slot)
	return err == nil
}

// ValidateClientName validates a booking client name
func ValidateClientName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 100
}

// ValidateAppointmentInput checks the common create/move fields.
func ValidateAppointmentInput(staffID, date, timeSlot string) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(staffID) == "" {
		errors.Add("staff_id", "is required")
	}
	if !ValidateDate(date) {
		errors.Add("date", "must be in YYYY-MM-DD format")
	}
	if !ValidateTimeSlot(timeSlot) {
		errors.Add("time_slot", "must be in HH:MM format")
	}

	return errors
}

// SanitizeString trims whitespace and limits length
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
