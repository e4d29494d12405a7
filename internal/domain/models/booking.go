package models

import (
	"encoding/json"
	"time"
)

// Booking is a stored flight booking. Segments and passengers are kept as the
// raw JSON the client sent, in whatever field naming it used.
type Booking struct {
	ID             int64           `json:"id"`
	FullName       string          `json:"fullName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	PNR            string          `json:"pnr"`
	FlightSegments json.RawMessage `json:"flightSegments"`
	Passengers     json.RawMessage `json:"passengers"`
	PaymentMethod  *string         `json:"paymentMethod"`
	ConsentGiven   bool            `json:"consentGiven"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// BookingSummary is the list view of a booking.
type BookingSummary struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary returns the list view of b.
func (b Booking) Summary() BookingSummary {
	return BookingSummary{ID: b.ID, FullName: b.FullName, Email: b.Email, CreatedAt: b.CreatedAt}
}
