package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"eticket/internal/domain"
	"eticket/internal/ticket"
	"eticket/internal/utils"

	"github.com/xuri/excelize/v2"
)

const (
	bookingsSheet   = "Bookings"
	passengersSheet = "Passengers"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var bookingHeaders = []string{"ID", "Created At", "PNR", "Full Name", "Email", "Phone", "Payment Method", "Consent", "Route", "Passengers"}

var passengerHeaders = []string{"Booking ID", "PNR", "Passenger", "E-Ticket Number", "Baggage"}

// ExportService writes the booking list as a spreadsheet.
type ExportService struct {
	Bookings  BookingService
	Aliases   ticket.Aliases
	RequestID string
}

// BookingsXLSX returns one row per booking on the first sheet and one row per
// passenger on the second.
func (s ExportService) BookingsXLSX(ctx context.Context) ([]byte, error) {
	list, err := s.Bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return nil, domain.InternalError{Msg: "failed to build export", Err: err}
	}
	if _, err := f.NewSheet(passengersSheet); err != nil {
		return nil, domain.InternalError{Msg: "failed to build export", Err: err}
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to build export", Err: err}
	}

	if err := writeRow(f, bookingsSheet, 1, toAny(bookingHeaders), headStyle); err != nil {
		return nil, err
	}
	if err := writeRow(f, passengersSheet, 1, toAny(passengerHeaders), headStyle); err != nil {
		return nil, err
	}

	aliases := s.aliases()
	paxRow := 2
	for i, b := range list {
		in, err := TicketInput(b)
		if err != nil {
			utils.LogError(s.RequestID, "export", "decode_booking", err)
		}
		booking := ticket.Normalize(in, aliases)

		routes := make([]string, 0, len(booking.Segments))
		for _, seg := range booking.Segments {
			routes = append(routes, seg.Route())
		}
		payment := ""
		if b.PaymentMethod != nil {
			payment = *b.PaymentMethod
		}
		row := []any{
			b.ID, b.CreatedAt.UTC().Format("2006-01-02 15:04:05"), b.PNR, b.FullName, b.Email, b.Phone,
			payment, b.ConsentGiven, strings.Join(routes, " / "), len(booking.Passengers),
		}
		if err := writeRow(f, bookingsSheet, i+2, row, 0); err != nil {
			return nil, err
		}

		for _, p := range booking.Passengers {
			prow := []any{b.ID, booking.PNR, ticket.FormatName(p), p.ETicketNumber, strings.Join(p.Baggage(), "; ")}
			if err := writeRow(f, passengersSheet, paxRow, prow, 0); err != nil {
				return nil, err
			}
			paxRow++
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "J", 18)
	_ = f.SetColWidth(passengersSheet, "A", "E", 24)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, domain.InternalError{Msg: "failed to write export", Err: err}
	}
	utils.LogEvent(s.RequestID, "export", "bookings_xlsx", fmt.Sprintf("bookings=%d bytes=%d", len(list), buf.Len()))
	return buf.Bytes(), nil
}

func (s ExportService) aliases() ticket.Aliases {
	if s.Aliases.Segment == nil && s.Aliases.Passenger == nil {
		return ticket.DefaultAliases()
	}
	return s.Aliases
}

func writeRow(f *excelize.File, sheet string, row int, values []any, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return domain.InternalError{Msg: "failed to build export", Err: err}
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return domain.InternalError{Msg: "failed to build export", Err: err}
	}
	if style != 0 {
		end, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(sheet, start, end, style); err != nil {
			return domain.InternalError{Msg: "failed to build export", Err: err}
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ExportFileName names the spreadsheet download.
func ExportFileName(now time.Time) string {
	return "bookings-" + now.UTC().Format("20060102-1504") + ".xlsx"
}
