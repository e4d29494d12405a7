package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"eticket/internal/domain"
	"eticket/internal/domain/models"
	"eticket/internal/metrics"
	"eticket/internal/store"
	"eticket/internal/ticket"
	"eticket/internal/utils"
)

const (
	MaxSegments   = 6
	MaxPassengers = 6
)

// Column widths of flight_bookings.
const (
	MaxFullNameLen = 255
	MaxEmailLen    = 255
	MaxPhoneLen    = 64
	MaxPNRLen      = 32
	MaxPaymentLen  = 64
)

// BookingInput is a booking submission. Segment and passenger records keep
// whatever field names the client used.
type BookingInput struct {
	FullName       string          `json:"fullName" binding:"required,max=255"`
	Email          string          `json:"email" binding:"required,email,max=255"`
	Phone          string          `json:"phone" binding:"required,max=64"`
	PNR            string          `json:"pnr" binding:"max=32"`
	FlightSegments []ticket.Record `json:"flightSegments" binding:"required,min=1,max=6"`
	Passengers     []ticket.Record `json:"passengers" binding:"required,min=1,max=6"`
	PaymentMethod  *string         `json:"paymentMethod" binding:"omitempty,max=64"`
	ConsentGiven   bool            `json:"consentGiven"`
}

type BookingService struct {
	Store     store.Store
	Metrics   *metrics.Metrics
	RequestID string
}

// Validate repeats the binding rules for callers that skip the HTTP layer.
func (in BookingInput) Validate() error {
	switch {
	case strings.TrimSpace(in.FullName) == "":
		return domain.ValidationError{Field: "fullName", Msg: "Required"}
	case strings.TrimSpace(in.Email) == "":
		return domain.ValidationError{Field: "email", Msg: "Required"}
	case strings.TrimSpace(in.Phone) == "":
		return domain.ValidationError{Field: "phone", Msg: "Required"}
	}
	type bound struct {
		field, value string
		limit        int
	}
	lengths := []bound{
		{"fullName", in.FullName, MaxFullNameLen},
		{"email", in.Email, MaxEmailLen},
		{"phone", in.Phone, MaxPhoneLen},
		{"pnr", in.PNR, MaxPNRLen},
	}
	if in.PaymentMethod != nil {
		lengths = append(lengths, bound{"paymentMethod", *in.PaymentMethod, MaxPaymentLen})
	}
	for _, l := range lengths {
		if utf8.RuneCountInString(strings.TrimSpace(l.value)) > l.limit {
			return domain.ValidationError{Field: l.field, Msg: fmt.Sprintf("String must contain at most %d character(s)", l.limit)}
		}
	}
	if err := checkCount("flightSegments", len(in.FlightSegments), MaxSegments); err != nil {
		return err
	}
	return checkCount("passengers", len(in.Passengers), MaxPassengers)
}

func checkCount(field string, n, limit int) error {
	if n < 1 {
		return domain.ValidationError{Field: field, Msg: "Array must contain at least 1 element(s)"}
	}
	if n > limit {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("Array must contain at most %d element(s)", limit)}
	}
	return nil
}

func (s BookingService) Create(ctx context.Context, in BookingInput) (models.Booking, error) {
	if err := in.Validate(); err != nil {
		return models.Booking{}, err
	}
	segments, err := json.Marshal(in.FlightSegments)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "flightSegments", Msg: "not serializable", Err: err}
	}
	passengers, err := json.Marshal(in.Passengers)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "passengers", Msg: "not serializable", Err: err}
	}

	var payment *string
	if in.PaymentMethod != nil {
		if p := utils.TrimOrEmpty(*in.PaymentMethod); p != "" {
			payment = &p
		}
	}

	b, err := s.Store.CreateBooking(ctx, models.Booking{
		FullName:       utils.NormalizeSpace(in.FullName),
		Email:          utils.TrimOrEmpty(in.Email),
		Phone:          utils.TrimOrEmpty(in.Phone),
		PNR:            strings.ToUpper(utils.TrimOrEmpty(in.PNR)),
		FlightSegments: segments,
		Passengers:     passengers,
		PaymentMethod:  payment,
		ConsentGiven:   in.ConsentGiven,
	})
	if err != nil {
		utils.LogError(s.RequestID, "booking", "create", err)
		return models.Booking{}, domain.InternalError{Msg: "failed to save booking", Err: err}
	}
	s.Metrics.IncBookingCreated()
	utils.LogEvent(s.RequestID, "booking", "create", fmt.Sprintf("booking_id=%d segments=%d passengers=%d", b.ID, len(in.FlightSegments), len(in.Passengers)))
	return b, nil
}

func (s BookingService) Get(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "Invalid booking ID"}
	}
	b, err := s.Store.GetBooking(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to load booking", Err: err}
	}
	return b, nil
}

func (s BookingService) List(ctx context.Context) ([]models.Booking, error) {
	list, err := s.Store.ListBookings(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list bookings", Err: err}
	}
	return list, nil
}

// TicketInput turns a stored booking back into ticket form state.
func TicketInput(b models.Booking) (ticket.Input, error) {
	in := ticket.Input{PNR: b.PNR}
	if err := decodeRecords(b.FlightSegments, &in.Segments); err != nil {
		return ticket.Input{}, fmt.Errorf("booking %d segments: %w", b.ID, err)
	}
	if err := decodeRecords(b.Passengers, &in.Passengers); err != nil {
		return ticket.Input{}, fmt.Errorf("booking %d passengers: %w", b.ID, err)
	}
	return in, nil
}

func decodeRecords(raw json.RawMessage, dst *[]ticket.Record) error {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	return dec.Decode(dst)
}
