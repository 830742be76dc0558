package schedule

import "salonportal/internal/model"

// DayStats aggregates one column of the grid.
type DayStats struct {
	Date            string  `json:"date"`
	TotalSlots      int     `json:"total_slots"`
	BookedSlots     int     `json:"booked_slots"`
	AvailableSlots  int     `json:"available_slots"`
	ExtensionSlots  int     `json:"extension_slots"`
	Appointments    int     `json:"appointments"`
	BookedMinutes   int     `json:"booked_minutes"`
	Revenue         float64 `json:"revenue"`
	UtilizationRate float64 `json:"utilization_rate"`
}

// WeekStats is the analytics overlay of a week.
type WeekStats struct {
	Days     []DayStats                      `json:"days"`
	Total    DayStats                        `json:"total"`
	ByStatus map[model.AppointmentStatus]int `json:"by_status"`
}

// Summarize counts slots and placed appointments. Each appointment is
// counted once, on its start slot.
func Summarize(week Week) WeekStats {
	stats := WeekStats{
		Days:     make([]DayStats, 0, len(week.Days)),
		ByStatus: make(map[model.AppointmentStatus]int),
	}
	total := DayStats{Date: week.Start}

	for _, day := range week.Days {
		ds := DayStats{Date: day.Date, TotalSlots: len(day.Slots)}
		for _, s := range day.Slots {
			if s.IsExtensionTime {
				ds.ExtensionSlots++
			}
			if s.IsAvailable {
				ds.AvailableSlots++
				continue
			}
			ds.BookedSlots++
			ds.BookedMinutes += s.DurationMinutes
			if s.IsAppointmentStart && s.AppointmentBlock != nil {
				ds.Appointments++
				ds.Revenue += s.AppointmentBlock.Price
				stats.ByStatus[s.AppointmentBlock.Status]++
			}
		}
		ds.UtilizationRate = ratio(ds.BookedSlots, ds.TotalSlots)
		stats.Days = append(stats.Days, ds)

		total.TotalSlots += ds.TotalSlots
		total.BookedSlots += ds.BookedSlots
		total.AvailableSlots += ds.AvailableSlots
		total.ExtensionSlots += ds.ExtensionSlots
		total.Appointments += ds.Appointments
		total.BookedMinutes += ds.BookedMinutes
		total.Revenue += ds.Revenue
	}
	total.UtilizationRate = ratio(total.BookedSlots, total.TotalSlots)
	stats.Total = total
	return stats
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
