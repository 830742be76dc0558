package schedule

import (
	"fmt"

	"salonportal/internal/model"
)

// FreeRun is a stretch of back-to-back open slots on one day.
type FreeRun struct {
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Slots   int    `json:"slots"`
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

// FreeRuns returns the open stretches of a day in slot order. A gap in the
// slot times (a custom-hours day, a dropped row) ends a run.
func FreeRuns(day model.ScheduleDay) []FreeRun {
	var runs []FreeRun
	for i := 0; i < len(day.Slots); {
		n := openRun(day.Slots, i)
		if n == 0 {
			i++
			continue
		}
		minutes := 0
		for _, s := range day.Slots[i : i+n] {
			minutes += s.DurationMinutes
		}
		runs = append(runs, FreeRun{
			Date:    day.Date,
			Start:   day.Slots[i].StartTime,
			End:     day.Slots[i+n-1].EndTime,
			Slots:   n,
			Minutes: minutes,
			Label:   FormatDuration(minutes),
		})
		i += n
	}
	return runs
}

// WeekFreeTime flattens the open stretches of every day of the week.
func WeekFreeTime(week Week) []FreeRun {
	runs := []FreeRun{}
	for _, d := range week.Days {
		runs = append(runs, FreeRuns(d)...)
	}
	return runs
}

// CanBookConsecutive reports whether count open slots follow start without a break.
func CanBookConsecutive(slots []model.TimeSlot, start string, count int) bool {
	i := slotIndex(slots, start)
	return count > 0 && i >= 0 && openRun(slots, i) >= count
}

// DurationOptions lists, in minutes, every whole-slot length that can be
// booked from start. It is empty when start is taken or unknown.
func DurationOptions(slots []model.TimeSlot, start string) []int {
	i := slotIndex(slots, start)
	if i < 0 {
		return nil
	}
	n := openRun(slots, i)
	if n == 0 {
		return nil
	}
	options := make([]int, 0, n)
	total := 0
	for _, s := range slots[i : i+n] {
		total += s.DurationMinutes
		options = append(options, total)
	}
	return options
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// openRun counts the open slots from i on, stopping at a booked slot or a
// break in the times.
func openRun(slots []model.TimeSlot, i int) int {
	n := 0
	for j := i; j < len(slots) && slots[j].IsAvailable; j++ {
		if j > i && slots[j].StartTime != slots[j-1].EndTime {
			break
		}
		n++
	}
	return n
}

func slotIndex(slots []model.TimeSlot, start string) int {
	start = model.NormalizeClock(start)
	for i := range slots {
		if slots[i].StartTime == start {
			return i
		}
	}
	return -1
}
