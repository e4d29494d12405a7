package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"eticket/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingCols = []string{"id", "full_name", "email", "phone", "pnr", "flight_segments", "passengers", "payment_method", "consent_given", "created_at"}

func newMockStore(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := NewMySQLStore(db)
	s.Now = func() time.Time { return time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestMySQLStore_CreateBooking(t *testing.T) {
	s, mock := newMockStore(t)
	card := "card"

	mock.ExpectExec("INSERT INTO flight_bookings").
		WithArgs("Ali Raza", "ali@example.com", "+92300", "ABC123",
			`[{"from":"LHE"}]`, `[]`, "card", true, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(7, 1))

	b, err := s.CreateBooking(context.Background(), models.Booking{
		FullName:       "Ali Raza",
		Email:          "ali@example.com",
		Phone:          "+92300",
		PNR:            "ABC123",
		FlightSegments: json.RawMessage(`[{"from":"LHE"}]`),
		PaymentMethod:  &card,
		ConsentGiven:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, 2025, b.CreatedAt.Year())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_GetBooking(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM flight_bookings WHERE id = \\?").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(3, "Ali", "a@b.c", "1", "PNR1", []byte(`[{"to":"DXB"}]`), []byte(`[{"fullName":"Ali"}]`), nil, false, created))

	b, err := s.GetBooking(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "PNR1", b.PNR)
	assert.JSONEq(t, `[{"to":"DXB"}]`, string(b.FlightSegments))
	assert.Nil(t, b.PaymentMethod)
	assert.Equal(t, created, b.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLStore_GetBookingNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM flight_bookings").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := s.GetBooking(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLStore_ListBookings(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM flight_bookings ORDER BY id").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(1, "A", "a@x", "1", "", []byte(`[]`), []byte(`[]`), "cash", true, now).
			AddRow(2, "B", "b@x", "2", "", []byte(`[]`), []byte(`[]`), nil, false, now))

	list, err := s.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].PaymentMethod)
	assert.Equal(t, "cash", *list[0].PaymentMethod)
	assert.Equal(t, "B", list[1].FullName)
}

func TestMySQLStore_Users(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO users").WithArgs("agent", "hash").
		WillReturnResult(sqlmock.NewResult(5, 1))
	u, err := s.CreateUser(context.Background(), models.User{Username: "agent", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)

	mock.ExpectExec("INSERT INTO users").WithArgs("agent", "hash").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	_, err = s.CreateUser(context.Background(), models.User{Username: "agent", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)

	mock.ExpectQuery("SELECT id, username, password FROM users WHERE username = \\?").WithArgs("agent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}).AddRow(5, "agent", "hash"))
	got, err := s.GetUserByUsername(context.Background(), "agent")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	mock.ExpectQuery("SELECT id, username, password FROM users WHERE id = \\?").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}))
	_, err = s.GetUser(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
