package model

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds every clock value.
const MinutesPerDay = 24 * 60

// ParseClock parses "HH:MM" (or "H:MM") into minutes since midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if !allDigits(hh) || !allDigits(mm) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if m > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	minutes := h*60 + m
	if minutes > MinutesPerDay {
		return 0, fmt.Errorf("invalid time %q, past 24:00", s)
	}
	return minutes, nil
}

// FormatClock renders minutes since midnight as zero-padded "HH:MM".
// 1440 renders as "24:00" so a slot ending at midnight stays readable.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock re-renders a parseable time as "HH:MM" ("9:00" -> "09:00").
func NormalizeClock(s string) string {
	m, err := ParseClock(s)
	if err != nil {
		return s
	}
	return FormatClock(m)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
