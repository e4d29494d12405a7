package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eticket/internal/domain"
	"eticket/internal/domain/models"
	"eticket/internal/metrics"
	"eticket/internal/render"
	"eticket/internal/store"
	"eticket/internal/ticket"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func validInput() BookingInput {
	return BookingInput{
		FullName: "  Ali   Raza ",
		Email:    "ali@example.com",
		Phone:    "+92 300 0000000",
		PNR:      "abc123",
		FlightSegments: []ticket.Record{
			{"from": "LHE", "to": "DXB", "date": "2025-07-05", "flightNumber": "EK623", "airline": "Emirates"},
		},
		Passengers: []ticket.Record{
			{"fullName": "Ali Raza", "eTicketNumber": "176-1", "checked23kg": 1, "checked23kgWeight": "23kg"},
		},
	}
}

func TestBookingService_CreateGetList(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	svc := BookingService{Store: store.NewMemoryStore(), Metrics: m}

	b, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, "Ali Raza", b.FullName)
	assert.Equal(t, "ABC123", b.PNR)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsSaved))

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(b.FlightSegments), string(got.FlightSegments))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBookingService_Validation(t *testing.T) {
	svc := BookingService{Store: store.NewMemoryStore()}

	in := validInput()
	in.FlightSegments = nil
	_, err := svc.Create(context.Background(), in)
	assert.True(t, domain.IsValidation(err))

	in = validInput()
	for i := 0; i < 7; i++ {
		in.Passengers = append(in.Passengers, ticket.Record{"fullName": "x"})
	}
	_, err = svc.Create(context.Background(), in)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "at most 6")

	in = validInput()
	in.Email = " "
	_, err = svc.Create(context.Background(), in)
	assert.True(t, domain.IsValidation(err))
}

func TestBookingService_ColumnLimits(t *testing.T) {
	svc := BookingService{Store: store.NewMemoryStore()}

	in := validInput()
	in.PNR = strings.Repeat("A", MaxPNRLen+1)
	_, err := svc.Create(context.Background(), in)
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pnr", verr.Field)
	assert.Equal(t, "String must contain at most 32 character(s)", verr.Msg)

	in = validInput()
	long := strings.Repeat("x", MaxPaymentLen+1)
	in.PaymentMethod = &long
	_, err = svc.Create(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "paymentMethod", verr.Field)

	in = validInput()
	in.PNR = strings.Repeat("Ü", MaxPNRLen)
	_, err = svc.Create(context.Background(), in)
	assert.NoError(t, err)
}

func TestBookingService_GetMissing(t *testing.T) {
	svc := BookingService{Store: store.NewMemoryStore()}
	_, err := svc.Get(context.Background(), 42)
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.Get(context.Background(), 0)
	assert.True(t, domain.IsValidation(err))
}

type failingStore struct{ store.Store }

func (failingStore) CreateBooking(context.Context, models.Booking) (models.Booking, error) {
	return models.Booking{}, errors.New("connection reset")
}

func TestBookingService_StoreFailureIsInternal(t *testing.T) {
	svc := BookingService{Store: failingStore{store.NewMemoryStore()}}
	_, err := svc.Create(context.Background(), validInput())
	assert.True(t, domain.IsInternal(err))
}

func TestTicketInput_KeepsNumbers(t *testing.T) {
	b := models.Booking{
		PNR:            "P1",
		FlightSegments: []byte(`[{"from":"A","to":"B"}]`),
		Passengers:     []byte(`[{"fullName":"X Y","baggageQuantity":2}]`),
	}
	in, err := TicketInput(b)
	require.NoError(t, err)
	assert.Equal(t, "P1", in.PNR)
	assert.Equal(t, "2", ticket.Resolve(in.Passengers[0], []string{"baggageQuantity"}))

	_, err = TicketInput(models.Booking{FlightSegments: []byte(`{bad`)})
	assert.Error(t, err)
}

func TestAuthService_RegisterLoginParse(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	svc := AuthService{Store: store.NewMemoryStore(), Secret: []byte("test-secret"), Now: func() time.Time { return now }}

	u, err := svc.Register(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)

	_, err = svc.Register(ctx, Credentials{Username: "agent", Password: "another"})
	assert.True(t, domain.IsConflict(err))

	token, logged, err := svc.Login(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "agent", claims.Username)

	fetched, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "agent", fetched.Username)
}

func TestAuthService_Rejections(t *testing.T) {
	ctx := context.Background()
	svc := AuthService{Store: store.NewMemoryStore(), Secret: []byte("test-secret")}
	_, err := svc.Register(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Username: "agent", Password: "wrong"})
	assert.True(t, domain.IsUnauthorized(err))

	_, _, err = svc.Login(ctx, Credentials{Username: "ghost", Password: "s3cret!"})
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.ParseToken("not-a-token")
	assert.True(t, domain.IsUnauthorized(err))

	other := AuthService{Store: svc.Store, Secret: []byte("other-secret")}
	token, _, err := svc.Login(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)
	_, err = other.ParseToken(token)
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.GetUser(ctx, 99)
	assert.True(t, domain.IsNotFound(err))
}

func TestAuthService_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	issued := time.Now().Add(-48 * time.Hour)
	svc := AuthService{Store: store.NewMemoryStore(), Secret: []byte("k"), Now: func() time.Time { return issued }}
	_, err := svc.Register(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)
	token, _, err := svc.Login(ctx, Credentials{Username: "agent", Password: "s3cret!"})
	require.NoError(t, err)

	svc.Now = time.Now
	_, err = svc.ParseToken(token)
	assert.True(t, domain.IsUnauthorized(err))
}

func newDocs(st store.Store) DocsService {
	b := ticket.NewBuilder(render.NewSurface, nil)
	b.Now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }
	return DocsService{Builder: b, Store: st, Metrics: metrics.New()}
}

func TestDocsService_GenerateETicket(t *testing.T) {
	docs := newDocs(store.NewMemoryStore())
	in := ticket.Input{
		PNR:        "abc123",
		Segments:   validInput().FlightSegments,
		Passengers: validInput().Passengers,
	}

	art, err := docs.GenerateETicket(context.Background(), in, ticket.Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF")))
	assert.Equal(t, "e-ticket-ABC123.pdf", art.FileName)
	assert.Equal(t, 1.0, testutil.ToFloat64(docs.Metrics.TicketRenders.WithLabelValues("pdf", "ok")))

	_, err = docs.GenerateETicket(context.Background(), ticket.Input{}, ticket.Options{})
	assert.True(t, domain.IsValidation(err))
}

func TestDocsService_LogoFailureIsInternal(t *testing.T) {
	docs := newDocs(store.NewMemoryStore())
	in := ticket.Input{Segments: validInput().FlightSegments, Passengers: validInput().Passengers}

	_, err := docs.GenerateETicket(context.Background(), in, ticket.Options{LogoURL: "https://example.com/logo.png"})
	assert.True(t, domain.IsInternal(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(docs.Metrics.TicketRenders.WithLabelValues("pdf", "error")))
}

func TestDocsService_GenerateForBooking(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	b, err := BookingService{Store: st}.Create(ctx, validInput())
	require.NoError(t, err)

	docs := newDocs(st)
	art, err := docs.GenerateForBooking(ctx, b.ID, ticket.Options{Format: ticket.FormatHTML})
	require.NoError(t, err)
	assert.Contains(t, string(art.Body), "RAZA / ALI")
	assert.Contains(t, string(art.Body), "1 x 23kg Checked Baggage")

	_, err = docs.GenerateForBooking(ctx, 999, ticket.Options{})
	assert.True(t, domain.IsNotFound(err))
}

func TestExportService_BookingsXLSX(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	bookings := BookingService{Store: st}
	_, err := bookings.Create(ctx, validInput())
	require.NoError(t, err)

	data, err := ExportService{Bookings: bookings}.BookingsXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(bookingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, bookingHeaders, rows[0])
	assert.Equal(t, "Ali Raza", rows[1][3])
	assert.Equal(t, "LHE → DXB", rows[1][8])

	pax, err := f.GetRows(passengersSheet)
	require.NoError(t, err)
	require.Len(t, pax, 2)
	assert.Equal(t, "RAZA / ALI", pax[1][2])
	assert.Equal(t, "1 x 23kg Checked Baggage", pax[1][4])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "bookings-20250701-0930.xlsx", ExportFileName(time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)))
}
