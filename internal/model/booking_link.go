package model

import (
	"fmt"
	"time"
)

// MaxBookingAdvanceDays caps how far ahead guests may book.
const MaxBookingAdvanceDays = 365

// DefaultBookingAdvanceDays is used for a new link that doesn't name one.
const DefaultBookingAdvanceDays = 30

// BookingLink is the public booking page configuration of a stylist.
type BookingLink struct {
	StylistID         string    `json:"stylist_id"`
	UniqueCode        string    `json:"unique_code"`
	BookingURL        string    `json:"booking_url"`
	QRCodeURL         string    `json:"qr_code_url,omitempty"`
	MaxAdvanceDays    int       `json:"max_advance_days"`
	AllowGuestBooking bool      `json:"allow_guest_booking"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validate checks the user-editable fields.
func (b *BookingLink) Validate() error {
	if b.MaxAdvanceDays < 1 || b.MaxAdvanceDays > MaxBookingAdvanceDays {
		return fmt.Errorf("%w: max_advance_days must be between 1 and %d", ErrInvalidSettings, MaxBookingAdvanceDays)
	}
	return nil
}
