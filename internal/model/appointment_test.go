package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentBlock_Minutes(t *testing.T) {
	assert.Equal(t, 90, AppointmentBlock{Duration: 90}.Minutes())
	assert.Equal(t, 150, AppointmentBlock{StartTime: "10:00", EndTime: "12:30"}.Minutes())
	assert.Equal(t, 0, AppointmentBlock{StartTime: "10:00", EndTime: "09:00"}.Minutes())
	assert.Equal(t, 0, AppointmentBlock{StartTime: "bad"}.Minutes())
}

func TestAppointmentBlock_SlotCount(t *testing.T) {
	assert.Equal(t, 4, AppointmentBlock{Duration: 120}.SlotCount(30))
	assert.Equal(t, 3, AppointmentBlock{Duration: 75}.SlotCount(30))
	assert.Equal(t, 1, AppointmentBlock{Duration: 0}.SlotCount(30))
	assert.Equal(t, 2, AppointmentBlock{Duration: 60}.SlotCount(0))
}

func TestAppointmentBlock_OverlapsWith(t *testing.T) {
	existing := AppointmentBlock{Date: "2026-01-15", StartTime: "10:00", Duration: 240}

	before := AppointmentBlock{Date: "2026-01-15", StartTime: "08:00", Duration: 120}
	assert.False(t, existing.OverlapsWith(&before))

	after := AppointmentBlock{Date: "2026-01-15", StartTime: "14:00", Duration: 60}
	assert.False(t, existing.OverlapsWith(&after))

	during := AppointmentBlock{Date: "2026-01-15", StartTime: "12:00", Duration: 240}
	assert.True(t, existing.OverlapsWith(&during))

	otherDay := AppointmentBlock{Date: "2026-01-16", StartTime: "12:00", Duration: 60}
	assert.False(t, existing.OverlapsWith(&otherDay))

	assert.False(t, existing.OverlapsWith(nil))
}

func TestAppointmentBlock_IsCancelled(t *testing.T) {
	assert.True(t, AppointmentBlock{Status: StatusCancelled}.IsCancelled())
	assert.False(t, AppointmentBlock{Status: StatusPending}.IsCancelled())
}
