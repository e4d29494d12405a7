package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eticket/internal/domain"
	"eticket/internal/metrics"
	"eticket/internal/store"
	"eticket/internal/ticket"
	"eticket/internal/utils"
)

// DocsService produces e-ticket files for stored bookings and for ad-hoc form
// payloads.
type DocsService struct {
	Builder   *ticket.Builder
	Store     store.Store
	Metrics   *metrics.Metrics
	RequestID string
}

// GenerateETicket renders a ticket straight from form state.
func (s DocsService) GenerateETicket(ctx context.Context, in ticket.Input, opts ticket.Options) (ticket.Artifact, error) {
	if opts.Format == "" {
		opts.Format = ticket.FormatPDF
	}
	start := time.Now()
	art, err := s.Builder.Build(ctx, in, opts)
	s.Metrics.ObserveRender(string(opts.Format), art.Pages, time.Since(start), err)

	switch {
	case errors.Is(err, ticket.ErrEmptyBooking):
		return ticket.Artifact{}, domain.ValidationError{Field: "booking", Msg: err.Error(), Err: err}
	case err != nil:
		utils.LogError(s.RequestID, "docs", "generate_eticket", err)
		return ticket.Artifact{}, domain.InternalError{Msg: "failed to generate ticket", Err: err}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket",
		fmt.Sprintf("pnr=%s format=%s pages=%d bytes=%d", art.Document.PNR, opts.Format, art.Pages, len(art.Body)))
	return art, nil
}

// GenerateForBooking renders the ticket of a stored booking.
func (s DocsService) GenerateForBooking(ctx context.Context, id int64, opts ticket.Options) (ticket.Artifact, error) {
	b, err := BookingService{Store: s.Store, RequestID: s.RequestID}.Get(ctx, id)
	if err != nil {
		return ticket.Artifact{}, err
	}
	in, err := TicketInput(b)
	if err != nil {
		return ticket.Artifact{}, domain.InternalError{Msg: "stored booking is unreadable", Err: err}
	}
	return s.GenerateETicket(ctx, in, opts)
}
