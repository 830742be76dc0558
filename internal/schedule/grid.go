package schedule

import (
	"time"

	"salonportal/internal/model"
)

const dateLayout = "2006-01-02"

// ComputeVisibleTimeRange returns the shared time axis: earliest start and
// latest end among working weekdays, the end pushed out by the extension
// policy. With no working weekday the range is Empty and starts at 24:00.
func ComputeVisibleTimeRange(hours model.WorkingHours, ext model.ExtensionSettings) model.TimeRange {
	start, end := model.MinutesPerDay, 0
	found := false
	for _, wd := range model.Weekdays {
		day, ok := hours[wd]
		if !ok || !day.IsWorking {
			continue
		}
		s, e, ok := window(day.Start, day.End)
		if !ok {
			continue
		}
		found = true
		start = min(start, s)
		end = max(end, e)
	}
	if !found {
		return model.TimeRange{StartHour: 24, Empty: true}
	}
	end = min(end+ext.ExtraMinutes(), model.MinutesPerDay)
	return model.RangeFromMinutes(start, end)
}

// GenerateDaySlots builds the free slots of one date.
//
// An "off" entry in the monthly schedule wins over everything, then a
// non-working weekday yields nothing. Otherwise slots run from the weekday's
// start to its end plus the allowed extension; slots starting at or after the
// nominal end are extension time. Short and custom days with explicit hours
// replace the weekday window for that date only.
func GenerateDaySlots(date time.Time, weekday time.Weekday, snap model.SettingsSnapshot, step int) []model.TimeSlot {
	slots := []model.TimeSlot{}
	if step <= 0 {
		step = model.DefaultSlotStep
	}
	dateKey := date.Format(dateLayout)

	status, hasStatus := snap.Monthly[dateKey]
	if hasStatus && status.Type == model.DayTypeOff {
		return slots
	}

	day, ok := snap.WorkingHours[model.WeekdayOf(weekday)]
	if !ok || !day.IsWorking {
		return slots
	}
	if hasStatus && status.HasCustomHours() {
		day.Start, day.End = status.Start, status.End
	}

	start, end, ok := window(day.Start, day.End)
	if !ok {
		return slots
	}
	bound := min(end+snap.Extension.ExtraMinutes(), model.MinutesPerDay)

	for cur := start; cur+step <= bound; cur += step {
		startStr := model.FormatClock(cur)
		slots = append(slots, model.TimeSlot{
			ID:              model.SlotID(dateKey, startStr),
			Date:            dateKey,
			StartTime:       startStr,
			EndTime:         model.FormatClock(cur + step),
			IsAvailable:     true,
			DurationMinutes: step,
			IsExtensionTime: cur >= end,
		})
	}
	return slots
}

// window parses a start/end pair; ok is false for malformed or inverted input.
func window(startStr, endStr string) (start, end int, ok bool) {
	start, err := model.ParseClock(startStr)
	if err != nil {
		return 0, 0, false
	}
	end, err = model.ParseClock(endStr)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}
