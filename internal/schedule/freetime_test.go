package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonportal/internal/model"
)

func slot(start, end string, available bool) model.TimeSlot {
	return model.TimeSlot{StartTime: start, EndTime: end, IsAvailable: available, DurationMinutes: 30}
}

func TestFreeRuns(t *testing.T) {
	tests := []struct {
		name   string
		slots  []model.TimeSlot
		starts []string
	}{
		{
			name:   "one open stretch",
			slots:  []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", true), slot("10:00", "10:30", true)},
			starts: []string{"09:00"},
		},
		{
			name:   "booked slot splits",
			slots:  []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", false), slot("10:00", "10:30", true)},
			starts: []string{"09:00", "10:00"},
		},
		{
			name:   "gap in times splits",
			slots:  []model.TimeSlot{slot("09:00", "09:30", true), slot("13:00", "13:30", true)},
			starts: []string{"09:00", "13:00"},
		},
		{
			name:  "no slots",
			slots: nil,
		},
		{
			name:  "fully booked",
			slots: []model.TimeSlot{slot("09:00", "09:30", false), slot("09:30", "10:00", false)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := FreeRuns(model.ScheduleDay{Date: "2026-01-12", Slots: tt.slots})
			require.Len(t, runs, len(tt.starts))
			for i, run := range runs {
				assert.Equal(t, tt.starts[i], run.Start)
				assert.Equal(t, "2026-01-12", run.Date)
			}
		})
	}
}

func TestFreeRuns_Lengths(t *testing.T) {
	day := model.ScheduleDay{Date: "2026-01-12", Slots: []model.TimeSlot{
		slot("09:00", "09:30", true), slot("09:30", "10:00", true), slot("10:00", "10:30", true),
		slot("10:30", "11:00", false),
		slot("11:00", "11:30", true),
	}}
	runs := FreeRuns(day)
	require.Len(t, runs, 2)
	assert.Equal(t, FreeRun{Date: "2026-01-12", Start: "09:00", End: "10:30", Slots: 3, Minutes: 90, Label: "1h 30m"}, runs[0])
	assert.Equal(t, FreeRun{Date: "2026-01-12", Start: "11:00", End: "11:30", Slots: 1, Minutes: 30, Label: "30m"}, runs[1])
}

func TestWeekFreeTime(t *testing.T) {
	appts := []model.AppointmentBlock{{ID: "a", Date: "2026-01-12", StartTime: "10:00", Duration: 60}}
	week := BuildWeek(monday, snapshot(), appts, Options{})

	runs := WeekFreeTime(week)
	var onMonday []FreeRun
	for _, r := range runs {
		if r.Date == "2026-01-12" {
			onMonday = append(onMonday, r)
		}
	}
	require.Len(t, onMonday, 2)
	assert.Equal(t, "10:00", onMonday[0].End)
	assert.Equal(t, "11:00", onMonday[1].Start)
	assert.Equal(t, "18:00", onMonday[1].End)

	empty := WeekFreeTime(BuildWeek(monday, model.SettingsSnapshot{}, nil, Options{}))
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestCanBookConsecutive(t *testing.T) {
	tests := []struct {
		name     string
		slots    []model.TimeSlot
		start    string
		count    int
		expected bool
	}{
		{
			name:     "two open slots",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", true), slot("10:00", "10:30", true)},
			start:    "09:00",
			count:    2,
			expected: true,
		},
		{
			name:     "unpadded start",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true)},
			start:    "9:00",
			count:    1,
			expected: true,
		},
		{
			name:     "next slot booked",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", false)},
			start:    "09:00",
			count:    2,
			expected: false,
		},
		{
			name:     "runs off the end",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", true)},
			start:    "09:00",
			count:    5,
			expected: false,
		},
		{
			name:     "zero count",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true)},
			start:    "09:00",
			count:    0,
			expected: false,
		},
		{
			name:     "unknown start",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true)},
			start:    "12:00",
			count:    1,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanBookConsecutive(tt.slots, tt.start, tt.count))
		})
	}
}

func TestDurationOptions(t *testing.T) {
	tests := []struct {
		name     string
		slots    []model.TimeSlot
		start    string
		expected []int
	}{
		{
			name:     "whole stretch",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", true), slot("10:00", "10:30", true)},
			start:    "09:00",
			expected: []int{30, 60, 90},
		},
		{
			name:     "stops at booking",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true), slot("09:30", "10:00", false), slot("10:00", "10:30", true)},
			start:    "09:00",
			expected: []int{30},
		},
		{
			name:     "start taken",
			slots:    []model.TimeSlot{slot("09:00", "09:30", false)},
			start:    "09:00",
			expected: nil,
		},
		{
			name:     "start unknown",
			slots:    []model.TimeSlot{slot("09:00", "09:30", true)},
			start:    "08:00",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DurationOptions(tt.slots, tt.start))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	for minutes, want := range map[int]string{
		15:  "15m",
		60:  "1h",
		90:  "1h 30m",
		120: "2h",
		195: "3h 15m",
	} {
		assert.Equal(t, want, FormatDuration(minutes))
	}
}
