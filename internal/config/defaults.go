package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"salonportal/internal/model"
)

// HolidayConfig represents a salon-wide closed date.
type HolidayConfig struct {
	Date string `yaml:"date"` // "2026-01-01"
	Name string `yaml:"name"` // "New Year"
}

// ScheduleDefaults is the root of schedule.yaml: settings used for any
// stylist that hasn't saved their own.
type ScheduleDefaults struct {
	WorkingHours model.WorkingHours      `yaml:"working_hours"`
	Extension    model.ExtensionSettings `yaml:"extension"`
	Calendar     model.CalendarSettings  `yaml:"calendar"`
	Holidays     []HolidayConfig         `yaml:"holidays"`
}

// BuiltinScheduleDefaults is used when no schedule.yaml exists.
func BuiltinScheduleDefaults() *ScheduleDefaults {
	weekday := model.DayHours{Start: "10:00", End: "19:00", IsWorking: true}
	return &ScheduleDefaults{
		WorkingHours: model.WorkingHours{
			model.Sunday:    {Start: "10:00", End: "19:00", IsWorking: false},
			model.Monday:    weekday,
			model.Tuesday:   weekday,
			model.Wednesday: weekday,
			model.Thursday:  weekday,
			model.Friday:    weekday,
			model.Saturday:  {Start: "09:00", End: "18:00", IsWorking: true},
		},
		Extension: model.ExtensionSettings{AllowExtension: false, MaxExtensionMinutes: 60, ShowExtensionWarning: true},
		Calendar:  model.CalendarSettings{SlotStepMinutes: model.DefaultSlotStep, WeekStartsOn: "sunday", ShowWeekends: true, Locale: "en"},
	}
}

// LoadScheduleDefaults loads and validates schedule defaults from a YAML file.
func LoadScheduleDefaults(path string) (*ScheduleDefaults, error) {
	if path == "" {
		path = "configs/schedule.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule defaults: %w", err)
	}

	var d ScheduleDefaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse schedule defaults: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validate schedule defaults: %w", err)
	}

	return &d, nil
}

// Validate checks the defaults for errors.
func (d *ScheduleDefaults) Validate() error {
	if len(d.WorkingHours) == 0 {
		return fmt.Errorf("working_hours: no days defined")
	}
	if err := model.ValidateWorkingHours(d.WorkingHours); err != nil {
		return fmt.Errorf("working_hours: %w", err)
	}
	if err := model.ValidateExtension(d.Extension); err != nil {
		return fmt.Errorf("extension: %w", err)
	}
	if err := model.ValidateCalendar(d.Calendar); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	for i, h := range d.Holidays {
		if h.Date == "" {
			return fmt.Errorf("holiday[%d]: date is required", i)
		}
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			return fmt.Errorf("holiday[%d]: invalid date format '%s', expected YYYY-MM-DD", i, h.Date)
		}
	}
	return nil
}

// Snapshot converts the defaults into engine settings; holidays become off days.
func (d *ScheduleDefaults) Snapshot() model.SettingsSnapshot {
	snap := model.SettingsSnapshot{
		WorkingHours: d.WorkingHours,
		Extension:    d.Extension,
		Calendar:     d.Calendar,
		Monthly:      make(model.MonthlySchedule, len(d.Holidays)),
	}
	for _, h := range d.Holidays {
		snap.Monthly[h.Date] = model.DayStatus{Type: model.DayTypeOff, Label: h.Name}
	}
	return snap.Clone()
}

// String returns a summary of the defaults.
func (d *ScheduleDefaults) String() string {
	working := 0
	for _, h := range d.WorkingHours {
		if h.IsWorking {
			working++
		}
	}
	return fmt.Sprintf("ScheduleDefaults: %d working days, %d holidays", working, len(d.Holidays))
}

// DefaultsHolder shares the current defaults between the watcher and request handlers.
type DefaultsHolder struct {
	mu       sync.RWMutex
	defaults *ScheduleDefaults
}

// NewDefaultsHolder starts with d, or the builtin defaults when d is nil.
func NewDefaultsHolder(d *ScheduleDefaults) *DefaultsHolder {
	if d == nil {
		d = BuiltinScheduleDefaults()
	}
	return &DefaultsHolder{defaults: d}
}

// Set replaces the current defaults; nil is ignored.
func (h *DefaultsHolder) Set(d *ScheduleDefaults) {
	if d == nil {
		return
	}
	h.mu.Lock()
	h.defaults = d
	h.mu.Unlock()
}

// Snapshot returns a private copy of the current defaults as engine settings.
func (h *DefaultsHolder) Snapshot() model.SettingsSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.defaults.Snapshot()
}
