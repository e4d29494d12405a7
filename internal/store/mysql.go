package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eticket/internal/domain/models"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLStore implements Store on database/sql with the MySQL driver.
type MySQLStore struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{DB: db, Now: time.Now}
}

const bookingColumns = `id, full_name, email, phone, COALESCE(pnr, ''), flight_segments, passengers, payment_method, consent_given, created_at`

func (s *MySQLStore) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.CreatedAt = s.now().UTC().Truncate(time.Second)
	b.FlightSegments = rawOrEmpty(b.FlightSegments)
	b.Passengers = rawOrEmpty(b.Passengers)

	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO flight_bookings
			(full_name, email, phone, pnr, flight_segments, passengers, payment_method, consent_given, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.FullName, b.Email, b.Phone, b.PNR,
		string(b.FlightSegments), string(b.Passengers),
		nullString(b.PaymentMethod), b.ConsentGiven, b.CreatedAt,
	)
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (s *MySQLStore) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM flight_bookings WHERE id = ? LIMIT 1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

func (s *MySQLStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+bookingColumns+` FROM flight_bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *MySQLStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.DB.ExecContext(ctx, `INSERT INTO users (username, password) VALUES (?, ?)`, u.Username, u.PasswordHash)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("insert user id: %w", err)
	}
	u.ID = id
	return u, nil
}

func (s *MySQLStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE id = ? LIMIT 1`, id)
}

func (s *MySQLStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE username = ? LIMIT 1`, username)
}

func (s *MySQLStore) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *MySQLStore) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *MySQLStore) Close() error { return s.DB.Close() }

func (s *MySQLStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(r rowScanner) (models.Booking, error) {
	var (
		b        models.Booking
		segments []byte
		pax      []byte
		payment  sql.NullString
	)
	if err := r.Scan(&b.ID, &b.FullName, &b.Email, &b.Phone, &b.PNR, &segments, &pax, &payment, &b.ConsentGiven, &b.CreatedAt); err != nil {
		return models.Booking{}, err
	}
	b.FlightSegments = rawOrEmpty(segments)
	b.Passengers = rawOrEmpty(pax)
	if payment.Valid {
		b.PaymentMethod = &payment.String
	}
	return b, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ Store = (*MySQLStore)(nil)
