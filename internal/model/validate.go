package model

import (
	"fmt"
	"time"
)

// ValidateWorkingHours checks every configured weekday.
func ValidateWorkingHours(h WorkingHours) error {
	for day, hours := range h {
		if !isKnownWeekday(day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidSettings, day)
		}
		if !hours.IsWorking {
			continue
		}
		if err := validateWindow(hours.Start, hours.End, string(day)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateExtension rejects negative or day-long extensions.
func ValidateExtension(e ExtensionSettings) error {
	if e.MaxExtensionMinutes < 0 {
		return fmt.Errorf("%w: maxExtensionMinutes cannot be negative", ErrInvalidSettings)
	}
	if e.MaxExtensionMinutes >= MinutesPerDay {
		return fmt.Errorf("%w: maxExtensionMinutes must be under 24h", ErrInvalidSettings)
	}
	return nil
}

// ValidateMonthlySchedule checks date keys, day types and custom hours.
func ValidateMonthlySchedule(m MonthlySchedule) error {
	for date, status := range m {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidSettings, date)
		}
		switch status.Type {
		case DayTypeWork, DayTypeOff:
		case DayTypeShort, DayTypeCustom:
			if status.Start == "" && status.End == "" {
				continue
			}
			if err := validateWindow(status.Start, status.End, date); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s: unknown day type %q", ErrInvalidSettings, date, status.Type)
		}
	}
	return nil
}

// ValidateCalendar checks the grid step.
func ValidateCalendar(c CalendarSettings) error {
	if c.SlotStepMinutes < 0 {
		return fmt.Errorf("%w: slotStepMinutes cannot be negative", ErrInvalidSettings)
	}
	if c.SlotStepMinutes > 0 && (c.SlotStepMinutes < 5 || MinutesPerDay%c.SlotStepMinutes != 0) {
		return fmt.Errorf("%w: slotStepMinutes must be at least 5 and divide a day", ErrInvalidSettings)
	}
	return nil
}

// ValidateSnapshot validates all four parts.
func ValidateSnapshot(s SettingsSnapshot) error {
	if err := ValidateWorkingHours(s.WorkingHours); err != nil {
		return err
	}
	if err := ValidateExtension(s.Extension); err != nil {
		return err
	}
	if err := ValidateMonthlySchedule(s.Monthly); err != nil {
		return err
	}
	return ValidateCalendar(s.Calendar)
}

func validateWindow(start, end, prefix string) error {
	s, err := ParseClock(start)
	if err != nil {
		return fmt.Errorf("%w: %s.start: %v", ErrInvalidSettings, prefix, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return fmt.Errorf("%w: %s.end: %v", ErrInvalidSettings, prefix, err)
	}
	if e <= s {
		return fmt.Errorf("%w: %s: end must be after start", ErrInvalidSettings, prefix)
	}
	return nil
}

func isKnownWeekday(d Weekday) bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}
