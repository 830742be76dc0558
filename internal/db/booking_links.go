package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salonportal/internal/model"
)

// GetBookingLink returns the stylist's booking link or ErrNotFound.
func (db *DB) GetBookingLink(ctx context.Context, stylistID string) (*model.BookingLink, error) {
	row := db.QueryRowContext(ctx, `
		SELECT stylist_id, unique_code, max_advance_days, allow_guest_booking,
		       is_active, created_at, updated_at
		FROM booking_links
		WHERE stylist_id = ?`, stylistID)

	var l model.BookingLink
	err := row.Scan(&l.StylistID, &l.UniqueCode, &l.MaxAdvanceDays, &l.AllowGuestBooking,
		&l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking link for %s: %w", stylistID, err)
	}
	return &l, nil
}

// UpsertBookingLink creates or updates the stylist's booking link. The
// unique code of an existing row is never replaced.
func (db *DB) UpsertBookingLink(ctx context.Context, link *model.BookingLink) error {
	if err := link.Validate(); err != nil {
		return err
	}
	now := time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO booking_links (stylist_id, unique_code, max_advance_days, allow_guest_booking, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(stylist_id) DO UPDATE SET
			max_advance_days = excluded.max_advance_days,
			allow_guest_booking = excluded.allow_guest_booking,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		link.StylistID, link.UniqueCode, link.MaxAdvanceDays, link.AllowGuestBooking, link.IsActive, now, now)
	if err != nil {
		return fmt.Errorf("upsert booking link for %s: %w", link.StylistID, err)
	}
	return nil
}
