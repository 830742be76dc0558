package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonportal/internal/model"
)

const scheduleYAML = `
working_hours:
  monday: {start: "09:00", end: "18:00", is_working: true}
  tuesday: {start: "09:00", end: "18:00", is_working: true}
  sunday: {start: "10:00", end: "16:00", is_working: false}
extension:
  allow_extension: true
  max_extension_minutes: 60
calendar:
  slot_step_minutes: 15
holidays:
  - date: "2026-01-01"
    name: New Year
`

func TestLoadScheduleDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schedule.yaml", scheduleYAML)

	d, err := LoadScheduleDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, "09:00", d.WorkingHours[model.Monday].Start)
	assert.True(t, d.Extension.AllowExtension)
	assert.Equal(t, 15, d.Calendar.Step())
	assert.Equal(t, "ScheduleDefaults: 2 working days, 1 holidays", d.String())

	snap := d.Snapshot()
	assert.Equal(t, model.DayTypeOff, snap.Monthly["2026-01-01"].Type)
	assert.Equal(t, "New Year", snap.Monthly["2026-01-01"].Label)
}

func TestScheduleDefaultsValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no days", "calendar: {slot_step_minutes: 30}\n"},
		{"end before start", "working_hours:\n  monday: {start: \"18:00\", end: \"09:00\", is_working: true}\n"},
		{"bad holiday", "working_hours:\n  monday: {start: \"09:00\", end: \"18:00\", is_working: true}\nholidays:\n  - date: \"01/01/2026\"\n"},
		{"holiday without date", "working_hours:\n  monday: {start: \"09:00\", end: \"18:00\", is_working: true}\nholidays:\n  - name: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "schedule.yaml", tt.body)
			_, err := LoadScheduleDefaults(path)
			assert.Error(t, err)
		})
	}
}

func TestBuiltinScheduleDefaultsAreValid(t *testing.T) {
	d := BuiltinScheduleDefaults()
	require.NoError(t, d.Validate())
	assert.False(t, d.WorkingHours[model.Sunday].IsWorking)
	assert.Equal(t, model.DefaultSlotStep, d.Calendar.Step())
}

func TestDefaultsHolder(t *testing.T) {
	h := NewDefaultsHolder(nil)
	assert.Equal(t, "10:00", h.Snapshot().WorkingHours[model.Monday].Start)

	h.Set(nil)
	assert.NotEmpty(t, h.Snapshot().WorkingHours)

	custom := BuiltinScheduleDefaults()
	custom.WorkingHours[model.Monday] = model.DayHours{Start: "08:00", End: "12:00", IsWorking: true}
	h.Set(custom)

	snap := h.Snapshot()
	assert.Equal(t, "08:00", snap.WorkingHours[model.Monday].Start)

	// The snapshot is a copy.
	snap.WorkingHours[model.Monday] = model.DayHours{}
	assert.Equal(t, "08:00", h.Snapshot().WorkingHours[model.Monday].Start)
}

func TestDefaultsHolder_Watch(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schedule.yaml", scheduleYAML)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewDefaultsHolder(nil)
	require.NoError(t, h.Watch(ctx, path, 10*time.Millisecond, nil))
	assert.Equal(t, model.DayTypeOff, h.Snapshot().Monthly["2026-01-01"].Type)

	updated := scheduleYAML + "  - date: \"2026-05-05\"\n    name: Children's Day\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	assert.Eventually(t, func() bool {
		return h.Snapshot().Monthly["2026-05-05"].Label == "Children's Day"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDefaultsHolder_WatchInitialLoadError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewDefaultsHolder(nil)
	err := h.Watch(ctx, filepath.Join(t.TempDir(), "missing.yaml"), time.Second, nil)
	assert.Error(t, err)
	assert.Equal(t, BuiltinScheduleDefaults().Snapshot(), h.Snapshot())
}

func TestDefaultsWatcher_LogsFailedReloadOnce(t *testing.T) {
	path := writeFile(t, t.TempDir(), "schedule.yaml", scheduleYAML)
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	h := NewDefaultsHolder(nil)
	w := &defaultsWatcher{path: path, holder: h, logger: &logger}
	require.NoError(t, w.load())
	assert.False(t, w.poll(), "unchanged file is not reloaded")

	touch := func(content string, at time.Time) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		require.NoError(t, os.Chtimes(path, at, at))
	}

	touch("working_hours: [not, a, map", time.Now().Add(time.Minute))
	assert.False(t, w.poll())
	assert.False(t, w.poll())
	assert.Equal(t, 1, strings.Count(logs.String(), "schedule defaults reload failed"))
	assert.Equal(t, "New Year", h.Snapshot().Monthly["2026-01-01"].Label, "previous defaults are kept")

	touch(scheduleYAML+"  - date: \"2026-05-05\"\n    name: Children's Day\n", time.Now().Add(2*time.Minute))
	assert.True(t, w.poll())
	assert.Contains(t, logs.String(), "schedule defaults reloaded")
	assert.Equal(t, model.DayTypeOff, h.Snapshot().Monthly["2026-05-05"].Type)

	require.NoError(t, os.Remove(path))
	assert.False(t, w.poll())
	assert.False(t, w.poll())
	assert.Equal(t, 1, strings.Count(logs.String(), "schedule defaults unreadable"))
}
