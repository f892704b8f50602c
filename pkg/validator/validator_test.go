package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDate(t *testing.T) {
	assert.True(t, ValidateDate("2025-01-10"))
	assert.False(t, ValidateDate("10/01/2025"))
	assert.False(t, ValidateDate("2025-13-01"))
	assert.False(t, ValidateDate(""))
}

func TestValidateTimeSlot(t *testing.T) {
	assert.True(t, ValidateTimeSlot("14:00"))
	assert.True(t, ValidateTimeSlot("09:30"))
	assert.False(t, ValidateTimeSlot("25:00"))
	assert.False(t, ValidateTimeSlot("2pm"))
	assert.False(t, ValidateTimeSlot(""))
}

func TestValidateAppointmentInput(t *testing.T) {
	errs := ValidateAppointmentInput("s-1", "2025-01-10", "14:00")
	assert.False(t, errs.HasErrors())

	errs = ValidateAppointmentInput("", "bad", "bad")
	assert.True(t, errs.HasErrors())
	assert.Len(t, errs, 3)
	assert.Contains(t, errs.Error(), "staff_id")
}
