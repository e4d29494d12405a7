package store

import (
	"context"
	"sync"
	"time"

	"eticket/internal/domain/models"
)

// MemoryStore keeps everything in process. It backs local runs without a
// database and the service tests.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []models.Booking
	users    []models.User
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) CreateBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = int64(len(m.bookings) + 1)
	b.CreatedAt = m.now().UTC()
	b.FlightSegments = append([]byte(nil), rawOrEmpty(b.FlightSegments)...)
	b.Passengers = append([]byte(nil), rawOrEmpty(b.Passengers)...)
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *MemoryStore) GetBooking(_ context.Context, id int64) (models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 1 || id > int64(len(m.bookings)) {
		return models.Booking{}, ErrNotFound
	}
	return m.bookings[id-1], nil
}

func (m *MemoryStore) ListBookings(_ context.Context) ([]models.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return models.User{}, ErrDuplicate
		}
	}
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, u)
	return u, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 1 || id > int64(len(m.users)) {
		return models.User{}, ErrNotFound
	}
	return m.users[id-1], nil
}

func (m *MemoryStore) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
