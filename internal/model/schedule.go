package model

// TimeSlot is one step-wide cell of a day column.
type TimeSlot struct {
	ID                        string            `json:"id"`
	Date                      string            `json:"date"`
	StartTime                 string            `json:"start_time"`
	EndTime                   string            `json:"end_time"`
	IsAvailable               bool              `json:"is_available"`
	DurationMinutes           int               `json:"duration_minutes"`
	IsExtensionTime           bool              `json:"is_extension_time"`
	AppointmentBlock          *AppointmentBlock `json:"appointmentBlock,omitempty"`
	IsAppointmentStart        bool              `json:"is_appointment_start,omitempty"`
	IsAppointmentContinuation bool              `json:"is_appointment_continuation,omitempty"`
}

// SlotID builds the identifier that stays stable across regenerations.
func SlotID(date, start string) string {
	return date + "-" + start
}

// ScheduleDay is one column of the weekly grid.
type ScheduleDay struct {
	Date      string     `json:"date"`
	DayOfWeek string     `json:"dayOfWeek"`
	Slots     []TimeSlot `json:"slots"`
}

// TimeRange is the shared time axis drawn to the left of the grid.
// Empty is set when no weekday is working; StartHour is then 24.
type TimeRange struct {
	StartHour   int  `json:"startHour"`
	StartMinute int  `json:"startMinute"`
	EndHour     int  `json:"endHour"`
	EndMinute   int  `json:"endMinute"`
	Empty       bool `json:"empty"`
}

// StartMinutes returns the range start as minutes since midnight.
func (r TimeRange) StartMinutes() int { return r.StartHour*60 + r.StartMinute }

// EndMinutes returns the range end as minutes since midnight.
func (r TimeRange) EndMinutes() int { return r.EndHour*60 + r.EndMinute }

// RangeFromMinutes builds a non-empty range.
func RangeFromMinutes(start, end int) TimeRange {
	return TimeRange{
		StartHour:   start / 60,
		StartMinute: start % 60,
		EndHour:     end / 60,
		EndMinute:   end % 60,
	}
}
