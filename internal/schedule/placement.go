package schedule

import (
	"errors"

	"salonportal/internal/model"
)

// ErrDoubleBooking is reported when strict placement meets an occupied slot.
var ErrDoubleBooking = errors.New("appointment overlaps an existing booking")

// PlacementPolicy decides what happens when two appointments claim a slot.
type PlacementPolicy int

const (
	// PlacementLastWriteWins lets a later appointment overwrite shared slots.
	PlacementLastWriteWins PlacementPolicy = iota
	// PlacementStrict keeps the earlier appointment and reports the later one.
	PlacementStrict
)

// AnomalyKind classifies a placement problem.
type AnomalyKind string

const (
	AnomalyStartNotFound AnomalyKind = "start_not_found"
	AnomalyTruncated     AnomalyKind = "truncated"
	AnomalyOverlap       AnomalyKind = "overlap"
	// AnomalyDateNotInWeek marks a fetched appointment with no day in the grid,
	// either because its date is empty or because it falls outside the week.
	AnomalyDateNotInWeek AnomalyKind = "date_not_in_week"
)

// PlacementAnomaly describes an appointment that could not be placed as booked.
type PlacementAnomaly struct {
	Kind          AnomalyKind `json:"kind"`
	AppointmentID string      `json:"appointment_id"`
	Date          string      `json:"date"`
	StartTime     string      `json:"start_time"`
	ConflictsWith string      `json:"conflicts_with,omitempty"`
	Rejected      bool        `json:"rejected,omitempty"`
	Err           error       `json:"-"`
}

// PlaceAppointments lays appointments onto a day's slots with last-write-wins
// semantics. Appointments whose start isn't a generated slot are dropped and
// those running past the last slot are truncated. slots is not modified.
func PlaceAppointments(slots []model.TimeSlot, appointments []model.AppointmentBlock, step int) []model.TimeSlot {
	out, _ := PlaceAppointmentsReport(slots, appointments, step, PlacementLastWriteWins)
	return out
}

// PlaceAppointmentsReport is PlaceAppointments plus a list of what went wrong.
func PlaceAppointmentsReport(slots []model.TimeSlot, appointments []model.AppointmentBlock, step int, policy PlacementPolicy) ([]model.TimeSlot, []PlacementAnomaly) {
	out := make([]model.TimeSlot, len(slots))
	copy(out, slots)

	index := make(map[string]int, len(out))
	for i, s := range out {
		index[s.StartTime] = i
	}

	var anomalies []PlacementAnomaly
	for i := range appointments {
		if appointments[i].IsCancelled() {
			continue
		}
		block := appointments[i]
		block.StartTime = model.NormalizeClock(block.StartTime)
		anomaly := PlacementAnomaly{AppointmentID: block.ID, Date: block.Date, StartTime: block.StartTime}

		first, ok := index[block.StartTime]
		if !ok {
			anomaly.Kind = AnomalyStartNotFound
			anomalies = append(anomalies, anomaly)
			continue
		}

		last := first + block.SlotCount(step)
		truncated := last > len(out)
		if truncated {
			last = len(out)
		}

		if conflict := occupant(out[first:last]); conflict != nil {
			overlap := anomaly
			overlap.Kind = AnomalyOverlap
			overlap.ConflictsWith = conflict.ID
			if policy == PlacementStrict {
				overlap.Err = ErrDoubleBooking
				overlap.Rejected = true
				anomalies = append(anomalies, overlap)
				continue
			}
			anomalies = append(anomalies, overlap)
		}
		if truncated {
			anomaly.Kind = AnomalyTruncated
			anomalies = append(anomalies, anomaly)
		}

		ref := &block
		for j := first; j < last; j++ {
			out[j].IsAvailable = false
			out[j].AppointmentBlock = ref
			out[j].IsAppointmentStart = j == first
			out[j].IsAppointmentContinuation = j != first
		}
	}
	return out, anomalies
}

func occupant(slots []model.TimeSlot) *model.AppointmentBlock {
	for i := range slots {
		if slots[i].AppointmentBlock != nil {
			return slots[i].AppointmentBlock
		}
	}
	return nil
}
