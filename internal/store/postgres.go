package store

import (
	"context"
	"errors"
	"fmt"

	"eticket/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Pool: pool}
}

const pgBookingColumns = `id, full_name, email, phone, COALESCE(pnr, ''), flight_segments, passengers, payment_method, consent_given, created_at`

func (s *PostgresStore) CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.FlightSegments = rawOrEmpty(b.FlightSegments)
	b.Passengers = rawOrEmpty(b.Passengers)

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO flight_bookings
			(full_name, email, phone, pnr, flight_segments, passengers, payment_method, consent_given)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		b.FullName, b.Email, b.Phone, b.PNR,
		string(b.FlightSegments), string(b.Passengers),
		b.PaymentMethod, b.ConsentGiven,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func (s *PostgresStore) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+pgBookingColumns+` FROM flight_bookings WHERE id = $1`, id)
	b, err := scanPgBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

func (s *PostgresStore) ListBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+pgBookingColumns+` FROM flight_bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanPgBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		u.Username, u.PasswordHash,
	).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.getUser(ctx, `SELECT id, username, password FROM users WHERE username = $1`, username)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := s.Pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.Pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

func scanPgBooking(r pgx.Row) (models.Booking, error) {
	var (
		b        models.Booking
		segments []byte
		pax      []byte
	)
	if err := r.Scan(&b.ID, &b.FullName, &b.Email, &b.Phone, &b.PNR, &segments, &pax, &b.PaymentMethod, &b.ConsentGiven, &b.CreatedAt); err != nil {
		return models.Booking{}, err
	}
	b.FlightSegments = rawOrEmpty(segments)
	b.Passengers = rawOrEmpty(pax)
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

var _ Store = (*PostgresStore)(nil)
