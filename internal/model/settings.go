package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings is returned when a settings blob fails validation.
var ErrInvalidSettings = errors.New("invalid settings")

// ErrUnknownKind is returned for a settings kind outside SettingsKinds.
var ErrUnknownKind = fmt.Errorf("%w: unknown settings kind", ErrInvalidSettings)

// Weekday is the lower-case English weekday name used as WorkingHours key.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
)

// Weekdays is indexed by time.Weekday (0=Sunday).
var Weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf converts Go's weekday to the settings key.
func WeekdayOf(d time.Weekday) Weekday {
	return Weekdays[int(d)%7]
}

// DayHours is the working window of a single weekday.
type DayHours struct {
	Start     string `json:"start" yaml:"start"` // "09:00"
	End       string `json:"end" yaml:"end"`     // "18:00"
	IsWorking bool   `json:"isWorking" yaml:"is_working"`
}

// WorkingHours maps each weekday to its working window.
type WorkingHours map[Weekday]DayHours

// ExtensionSettings controls bookable time past a day's closing time.
type ExtensionSettings struct {
	AllowExtension       bool `json:"allowExtension" yaml:"allow_extension"`
	MaxExtensionMinutes  int  `json:"maxExtensionMinutes" yaml:"max_extension_minutes"`
	ShowExtensionWarning bool `json:"showExtensionWarning" yaml:"show_extension_warning"`
}

// ExtraMinutes returns how far the day may run past its end.
func (e ExtensionSettings) ExtraMinutes() int {
	if !e.AllowExtension || e.MaxExtensionMinutes <= 0 {
		return 0
	}
	return e.MaxExtensionMinutes
}

// DayType classifies a calendar date in the monthly schedule.
type DayType string

const (
	DayTypeWork   DayType = "work"
	DayTypeOff    DayType = "off"
	DayTypeShort  DayType = "short"
	DayTypeCustom DayType = "custom"
)

// DayStatus is a per-date override. Start/End are only honoured for
// short and custom days.
type DayStatus struct {
	Type  DayType `json:"type" yaml:"type"`
	Label string  `json:"label" yaml:"label"`
	Color string  `json:"color" yaml:"color"`
	Start string  `json:"start,omitempty" yaml:"start,omitempty"`
	End   string  `json:"end,omitempty" yaml:"end,omitempty"`
}

// HasCustomHours reports whether the status replaces the weekday hours.
func (s DayStatus) HasCustomHours() bool {
	if s.Type != DayTypeShort && s.Type != DayTypeCustom {
		return false
	}
	return s.Start != "" && s.End != ""
}

// MonthlySchedule maps ISO dates (YYYY-MM-DD) to overrides.
type MonthlySchedule map[string]DayStatus

// CalendarSettings holds display preferences of the schedule page.
type CalendarSettings struct {
	SlotStepMinutes int    `json:"slotStepMinutes" yaml:"slot_step_minutes"`
	WeekStartsOn    string `json:"weekStartsOn" yaml:"week_starts_on"`
	ShowWeekends    bool   `json:"showWeekends" yaml:"show_weekends"`
	Locale          string `json:"locale" yaml:"locale"`
}

// DefaultSlotStep is the grid step in minutes when none is configured.
const DefaultSlotStep = 30

// Step returns the slot width in minutes.
func (c CalendarSettings) Step() int {
	if c.SlotStepMinutes <= 0 {
		return DefaultSlotStep
	}
	return c.SlotStepMinutes
}

// SettingsKind names one of the four persisted settings blobs.
type SettingsKind string

const (
	KindWorkingHours    SettingsKind = "working_hours"
	KindMonthlySchedule SettingsKind = "monthly_schedule"
	KindCalendar        SettingsKind = "calendar_settings"
	KindExtension       SettingsKind = "extension_settings"
)

// SettingsKinds lists every persisted kind.
var SettingsKinds = []SettingsKind{KindWorkingHours, KindMonthlySchedule, KindCalendar, KindExtension}

// ParseSettingsKind validates a kind coming from a URL or config.
func ParseSettingsKind(s string) (SettingsKind, error) {
	for _, k := range SettingsKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// SettingsSnapshot is everything the grid engine reads, captured at one point in time.
type SettingsSnapshot struct {
	WorkingHours WorkingHours      `json:"workingHours"`
	Extension    ExtensionSettings `json:"extensionSettings"`
	Monthly      MonthlySchedule   `json:"monthlySchedule"`
	Calendar     CalendarSettings  `json:"calendarSettings"`
}

// Clone returns a deep copy so callers can't mutate a shared snapshot.
func (s SettingsSnapshot) Clone() SettingsSnapshot {
	out := SettingsSnapshot{
		Extension: s.Extension,
		Calendar:  s.Calendar,
	}
	if s.WorkingHours != nil {
		out.WorkingHours = make(WorkingHours, len(s.WorkingHours))
		for k, v := range s.WorkingHours {
			out.WorkingHours[k] = v
		}
	}
	if s.Monthly != nil {
		out.Monthly = make(MonthlySchedule, len(s.Monthly))
		for k, v := range s.Monthly {
			out.Monthly[k] = v
		}
	}
	return out
}
