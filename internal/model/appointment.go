package model

// AppointmentStatus is the booking lifecycle state.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentBlock is a booking laid onto one or more consecutive slots.
type AppointmentBlock struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"` // YYYY-MM-DD
	CustomerName string            `json:"customerName"`
	Service      string            `json:"service"`
	StartTime    string            `json:"startTime"` // "10:00"
	EndTime      string            `json:"endTime"`
	Duration     int               `json:"duration"` // minutes
	Price        float64           `json:"price"`
	Phone        string            `json:"phone,omitempty"`
	Email        string            `json:"email,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Status       AppointmentStatus `json:"status"`
}

// Minutes returns the booked length, falling back to EndTime-StartTime
// when Duration is unset.
func (a AppointmentBlock) Minutes() int {
	if a.Duration > 0 {
		return a.Duration
	}
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return 0
	}
	end, err := ParseClock(a.EndTime)
	if err != nil || end <= start {
		return 0
	}
	return end - start
}

// SlotCount returns how many step-wide slots the block covers (at least one).
func (a AppointmentBlock) SlotCount(step int) int {
	if step <= 0 {
		step = DefaultSlotStep
	}
	n := (a.Minutes() + step - 1) / step
	if n < 1 {
		return 1
	}
	return n
}

// IsCancelled reports whether the block must stay off the grid.
func (a AppointmentBlock) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// OverlapsWith reports whether two blocks on the same date share any minute.
func (a AppointmentBlock) OverlapsWith(other *AppointmentBlock) bool {
	if other == nil || a.Date != other.Date {
		return false
	}
	s1, err := ParseClock(a.StartTime)
	if err != nil {
		return false
	}
	s2, err := ParseClock(other.StartTime)
	if err != nil {
		return false
	}
	e1, e2 := s1+a.Minutes(), s2+other.Minutes()
	return s1 < e2 && s2 < e1
}
