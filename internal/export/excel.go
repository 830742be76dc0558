package export

import (
	"io"
	"sort"

	"salonportal/internal/model"
	"salonportal/internal/schedule"
)

const (
	// WeekSheet holds the grid, one column per day.
	WeekSheet = "Week"
	// AppointmentsSheet lists every placed appointment once.
	AppointmentsSheet = "Appointments"

	cellContinuation = "…"
	cellExtension    = "ext"
	cellOff          = "off"
)

// WriteWeek renders a generated week as an xlsx workbook.
func WriteWeek(w io.Writer, week schedule.Week) error {
	sw := newSheetWriter()
	defer sw.Close()

	if err := writeGrid(sw, week); err != nil {
		return err
	}
	if err := writeAppointments(sw, week); err != nil {
		return err
	}
	return sw.Save(w)
}

func writeGrid(sw *sheetWriter, week schedule.Week) error {
	if err := sw.AddSheet(WeekSheet); err != nil {
		return err
	}

	header := []string{"Time"}
	for _, day := range week.Days {
		header = append(header, day.DayOfWeek+" "+day.Date)
	}
	if err := sw.WriteHeader(header); err != nil {
		return err
	}

	// Index slots by start time; a column without slots is a day off.
	byStart := make([]map[string]model.TimeSlot, len(week.Days))
	for i, day := range week.Days {
		byStart[i] = make(map[string]model.TimeSlot, len(day.Slots))
		for _, s := range day.Slots {
			byStart[i][s.StartTime] = s
		}
	}

	for _, t := range rowTimes(week) {
		row := []any{t}
		for i, day := range week.Days {
			if len(day.Slots) == 0 {
				row = append(row, cellOff)
				continue
			}
			s, ok := byStart[i][t]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, cellText(s))
		}
		if err := sw.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// rowTimes returns the grid axis plus any slot start that falls between
// steps, e.g. from custom day hours.
func rowTimes(week schedule.Week) []string {
	seen := make(map[int]bool)
	var minutes []int
	add := func(m int) {
		if !seen[m] {
			seen[m] = true
			minutes = append(minutes, m)
		}
	}

	if !week.VisibleRange.Empty && week.Step > 0 {
		for m := week.VisibleRange.StartMinutes(); m+week.Step <= week.VisibleRange.EndMinutes(); m += week.Step {
			add(m)
		}
	}
	for _, day := range week.Days {
		for _, s := range day.Slots {
			if m, err := model.ParseClock(s.StartTime); err == nil {
				add(m)
			}
		}
	}
	sort.Ints(minutes)

	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = model.FormatClock(m)
	}
	return out
}

func cellText(s model.TimeSlot) string {
	switch {
	case s.IsAppointmentStart && s.AppointmentBlock != nil:
		return s.AppointmentBlock.CustomerName + " / " + s.AppointmentBlock.Service
	case s.IsAppointmentContinuation:
		return cellContinuation
	case s.IsAvailable && s.IsExtensionTime:
		return cellExtension
	default:
		return ""
	}
}

func writeAppointments(sw *sheetWriter, week schedule.Week) error {
	if err := sw.AddSheet(AppointmentsSheet); err != nil {
		return err
	}
	if err := sw.WriteHeader([]string{"Date", "Start", "End", "Customer", "Service", "Status", "Duration", "Price", "Phone"}); err != nil {
		return err
	}

	for _, day := range week.Days {
		for _, s := range day.Slots {
			if !s.IsAppointmentStart || s.AppointmentBlock == nil {
				continue
			}
			a := s.AppointmentBlock
			row := []any{day.Date, a.StartTime, a.EndTime, a.CustomerName, a.Service, string(a.Status), a.Minutes(), a.Price, a.Phone}
			if err := sw.WriteRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}
