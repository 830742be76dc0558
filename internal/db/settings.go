package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salonportal/internal/model"
)

// GetBlob returns the raw JSON payload stored for a stylist and kind.
func (db *DB) GetBlob(ctx context.Context, stylistID string, kind model.SettingsKind) ([]byte, error) {
	var payload string
	err := db.QueryRowContext(ctx, `
		SELECT payload FROM stylist_settings
		WHERE stylist_id = ? AND kind = ?`, stylistID, string(kind)).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s for %s: %w", kind, stylistID, err)
	}
	return []byte(payload), nil
}

// PutBlob stores a payload as-is. Callers are expected to validate first.
func (db *DB) PutBlob(ctx context.Context, stylistID string, kind model.SettingsKind, payload []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO stylist_settings (stylist_id, kind, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(stylist_id, kind) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		stylistID, string(kind), string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("put %s for %s: %w", kind, stylistID, err)
	}
	return nil
}

// SaveSetting decodes and validates a payload of the given kind, then stores
// its canonical encoding. Invalid payloads wrap model.ErrInvalidSettings.
func (db *DB) SaveSetting(ctx context.Context, stylistID string, kind model.SettingsKind, payload []byte) error {
	canonical, err := canonicalize(kind, payload)
	if err != nil {
		return err
	}
	if err := db.PutBlob(ctx, stylistID, kind, canonical); err != nil {
		return err
	}
	db.logger.Debug().Str("stylist_id", stylistID).Str("kind", string(kind)).Msg("settings saved")
	return nil
}

func canonicalize(kind model.SettingsKind, payload []byte) ([]byte, error) {
	var (
		value any
		err   error
	)
	switch kind {
	case model.KindWorkingHours:
		var v model.WorkingHours
		if err = decode(payload, &v); err == nil {
			err = model.ValidateWorkingHours(v)
		}
		value = v
	case model.KindMonthlySchedule:
		var v model.MonthlySchedule
		if err = decode(payload, &v); err == nil {
			err = model.ValidateMonthlySchedule(v)
		}
		value = v
	case model.KindCalendar:
		var v model.CalendarSettings
		if err = decode(payload, &v); err == nil {
			err = model.ValidateCalendar(v)
		}
		value = v
	case model.KindExtension:
		var v model.ExtensionSettings
		if err = decode(payload, &v); err == nil {
			err = model.ValidateExtension(v)
		}
		value = v
	default:
		return nil, fmt.Errorf("%w %q", model.ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

func decode(payload []byte, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidSettings, err)
	}
	return nil
}

// getTyped loads one blob into out. found is false when nothing is stored.
func (db *DB) getTyped(ctx context.Context, stylistID string, kind model.SettingsKind, out any) (found bool, err error) {
	payload, err := db.GetBlob(ctx, stylistID, kind)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode %s for %s: %w", kind, stylistID, err)
	}
	return true, nil
}

// GetWorkingHours returns the stored weekly hours, or def when none are saved.
func (db *DB) GetWorkingHours(ctx context.Context, stylistID string, def model.WorkingHours) (model.WorkingHours, error) {
	var v model.WorkingHours
	found, err := db.getTyped(ctx, stylistID, model.KindWorkingHours, &v)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

// GetMonthlySchedule returns stored date overrides, or def when none are saved.
func (db *DB) GetMonthlySchedule(ctx context.Context, stylistID string, def model.MonthlySchedule) (model.MonthlySchedule, error) {
	var v model.MonthlySchedule
	found, err := db.getTyped(ctx, stylistID, model.KindMonthlySchedule, &v)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

func (db *DB) GetCalendarSettings(ctx context.Context, stylistID string, def model.CalendarSettings) (model.CalendarSettings, error) {
	var v model.CalendarSettings
	found, err := db.getTyped(ctx, stylistID, model.KindCalendar, &v)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

func (db *DB) GetExtensionSettings(ctx context.Context, stylistID string, def model.ExtensionSettings) (model.ExtensionSettings, error) {
	var v model.ExtensionSettings
	found, err := db.getTyped(ctx, stylistID, model.KindExtension, &v)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

// LoadSnapshot reads all four blobs of a stylist, filling the missing ones
// from defaults. Stored monthly overrides are layered on top of the default
// holidays.
func (db *DB) LoadSnapshot(ctx context.Context, stylistID string, defaults model.SettingsSnapshot) (model.SettingsSnapshot, error) {
	snap := defaults.Clone()
	var err error

	if snap.WorkingHours, err = db.GetWorkingHours(ctx, stylistID, snap.WorkingHours); err != nil {
		return model.SettingsSnapshot{}, err
	}
	if snap.Extension, err = db.GetExtensionSettings(ctx, stylistID, snap.Extension); err != nil {
		return model.SettingsSnapshot{}, err
	}
	if snap.Calendar, err = db.GetCalendarSettings(ctx, stylistID, snap.Calendar); err != nil {
		return model.SettingsSnapshot{}, err
	}

	monthly, err := db.GetMonthlySchedule(ctx, stylistID, nil)
	if err != nil {
		return model.SettingsSnapshot{}, err
	}
	if snap.Monthly == nil {
		snap.Monthly = make(model.MonthlySchedule, len(monthly))
	}
	for date, status := range monthly {
		snap.Monthly[date] = status
	}
	return snap, nil
}
