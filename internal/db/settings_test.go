package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonportal/internal/model"
)

func defaultSnapshot() model.SettingsSnapshot {
	return model.SettingsSnapshot{
		WorkingHours: model.WorkingHours{
			model.Monday: {Start: "10:00", End: "19:00", IsWorking: true},
		},
		Extension: model.ExtensionSettings{MaxExtensionMinutes: 30},
		Calendar:  model.CalendarSettings{SlotStepMinutes: 30},
		Monthly:   model.MonthlySchedule{"2026-01-01": {Type: model.DayTypeOff, Label: "New Year"}},
	}
}

func TestGetBlob_NotFound(t *testing.T) {
	database := newTestDB(t)
	_, err := database.GetBlob(context.Background(), "st-1", model.KindWorkingHours)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSetting_RoundTrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	err := database.SaveSetting(ctx, "st-1", model.KindWorkingHours,
		[]byte(`{"monday":{"start":"9:00","end":"18:00","isWorking":true}}`))
	require.NoError(t, err)

	hours, err := database.GetWorkingHours(ctx, "st-1", nil)
	require.NoError(t, err)
	assert.Equal(t, model.DayHours{Start: "9:00", End: "18:00", IsWorking: true}, hours[model.Monday])

	// Saving again replaces the row.
	require.NoError(t, database.SaveSetting(ctx, "st-1", model.KindWorkingHours,
		[]byte(`{"monday":{"start":"11:00","end":"15:00","isWorking":true}}`)))
	hours, err = database.GetWorkingHours(ctx, "st-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "11:00", hours[model.Monday].Start)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM stylist_settings`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSaveSetting_RejectsInvalid(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    model.SettingsKind
		payload string
	}{
		{"malformed json", model.KindCalendar, `{"slotStepMinutes":`},
		{"inverted hours", model.KindWorkingHours, `{"monday":{"start":"18:00","end":"09:00","isWorking":true}}`},
		{"bad clock", model.KindWorkingHours, `{"monday":{"start":"9am","end":"18:00","isWorking":true}}`},
		{"negative extension", model.KindExtension, `{"allowExtension":true,"maxExtensionMinutes":-30}`},
		{"unknown day type", model.KindMonthlySchedule, `{"2026-02-01":{"type":"vacation"}}`},
		{"unknown kind", model.SettingsKind("colors"), `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := database.SaveSetting(ctx, "st-1", tt.kind, []byte(tt.payload))
			assert.ErrorIs(t, err, model.ErrInvalidSettings)
		})
	}

	_, err := database.GetBlob(ctx, "st-1", model.KindWorkingHours)
	assert.ErrorIs(t, err, ErrNotFound, "rejected payloads must not be stored")
}

func TestLoadSnapshot_FillsGapsFromDefaults(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()
	defaults := defaultSnapshot()

	snap, err := database.LoadSnapshot(ctx, "st-1", defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, snap)

	require.NoError(t, database.SaveSetting(ctx, "st-1", model.KindExtension,
		[]byte(`{"allowExtension":true,"maxExtensionMinutes":60}`)))
	require.NoError(t, database.SaveSetting(ctx, "st-1", model.KindMonthlySchedule,
		[]byte(`{"2026-01-14":{"type":"short","start":"10:00","end":"14:00"}}`)))

	snap, err = database.LoadSnapshot(ctx, "st-1", defaults)
	require.NoError(t, err)
	assert.Equal(t, 60, snap.Extension.ExtraMinutes())
	assert.Equal(t, defaults.WorkingHours, snap.WorkingHours)
	assert.Equal(t, model.DayTypeOff, snap.Monthly["2026-01-01"].Type)
	assert.Equal(t, "14:00", snap.Monthly["2026-01-14"].End)

	// Other stylists are unaffected.
	other, err := database.LoadSnapshot(ctx, "st-2", defaults)
	require.NoError(t, err)
	assert.Equal(t, 0, other.Extension.ExtraMinutes())

	// Defaults passed in are not mutated.
	assert.Len(t, defaults.Monthly, 1)
}

func TestLoadSnapshot_StorageError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT payload FROM stylist_settings").
		WithArgs("st-1", "working_hours").
		WillReturnError(errors.New("disk I/O error"))

	database := Wrap(sqlDB, nil)
	_, err = database.LoadSnapshot(context.Background(), "st-1", defaultSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSnapshot_CorruptPayload(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT payload FROM stylist_settings").
		WithArgs("st-1", "working_hours").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow("not json"))

	_, err = Wrap(sqlDB, nil).LoadSnapshot(context.Background(), "st-1", defaultSnapshot())
	assert.ErrorContains(t, err, "decode working_hours")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutBlob_ExecError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectExec("INSERT INTO stylist_settings").
		WillReturnError(errors.New("database is locked"))

	err = Wrap(sqlDB, nil).SaveSetting(context.Background(), "st-1", model.KindCalendar, []byte(`{"slotStepMinutes":15}`))
	assert.ErrorContains(t, err, "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
