// Package store persists bookings and users.
package store

import (
	"context"
	"errors"

	"eticket/internal/domain/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the persistence boundary used by the services. Implementations
// must be safe for concurrent use.
type Store interface {
	CreateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	GetBooking(ctx context.Context, id int64) (models.Booking, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)

	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	Ping(ctx context.Context) error
	Close() error
}

// rawOrEmpty keeps JSON columns non-null.
func rawOrEmpty(b []byte) []byte {
	if len(b) == 0 {
		return []byte("[]")
	}
	return b
}
