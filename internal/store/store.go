package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/google/uuid"
)

// SnapshotName is the key the fleet state is saved under
const SnapshotName = "tvde-fleet-data"

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicatePlate     = errors.New("a vehicle with this plate already exists")
	ErrRentalUnavailable  = errors.New("rental is not available")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// errUnchanged lets a mutation bail out without saving a new snapshot.
var errUnchanged = errors.New("unchanged")

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSink registers where new notifications go once they are persisted.
func WithSink(sink services.Sink) Option {
	return func(s *Store) { s.sink = sink }
}

// WithAdmin sets the account created when seeding an empty database.
func WithAdmin(email, password string) Option {
	return func(s *Store) {
		if email != "" {
			s.adminEmail = email
		}
		if password != "" {
			s.adminPassword = password
		}
	}
}

// Store owns the single in-memory copy of the fleet state. Every mutation runs
// under one lock against a clone, is saved as a whole snapshot and is only then
// swapped in, so a failed save leaves the current state untouched.
type Store struct {
	mu    sync.Mutex
	repo  SnapshotRepository
	state *models.State
	sink  services.Sink
	now   func() time.Time

	adminEmail    string
	adminPassword string
}

func New(repo SnapshotRepository, opts ...Option) *Store {
	s := &Store{
		repo:          repo,
		state:         emptyState(models.DefaultSettings()),
		now:           time.Now,
		adminEmail:    "admin@tvdefleet.com",
		adminPassword: "admin",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyState(settings models.CompanySettings) *models.State {
	return &models.State{
		Drivers:       []models.Driver{},
		Vehicles:      []models.Vehicle{},
		Expenses:      []models.Expense{},
		Rentals:       []models.Rental{},
		Users:         []models.User{},
		Payments:      []models.Payment{},
		Notifications: []models.AppNotification{},
		Settings:      settings,
	}
}

// Load reads the saved snapshot, seeding and saving a fresh one when the
// database is empty.
func (s *Store) Load(ctx context.Context) error {
	state, err := s.repo.Load(ctx, SnapshotName)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		state = emptyState(models.DefaultSettings())
		admin, err := s.seedAdmin()
		if err != nil {
			return err
		}
		state.Users = []models.User{admin}
		if err := s.repo.Save(ctx, SnapshotName, state); err != nil {
			return fmt.Errorf("failed to save initial snapshot: %w", err)
		}
		log.Printf("Created snapshot %s with admin user %s", SnapshotName, admin.Email)
	case err != nil:
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	s.mu.Lock()
	s.state = state.Clone()
	s.mu.Unlock()
	return nil
}

func (s *Store) seedAdmin() (models.User, error) {
	admin := models.User{
		ID:          uuid.NewString(),
		Email:       s.adminEmail,
		FullName:    "Admin Fleet",
		Role:        models.RoleAdmin,
		Password:    s.adminPassword,
		Permissions: []string{"all"},
	}
	if err := admin.HashPassword(); err != nil {
		return models.User{}, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return admin, nil
}

// current returns the live state. It is never modified in place, so callers
// may read it after the lock is released but must not write to it.
func (s *Store) current() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() *models.State {
	return s.current().Clone()
}

// mutate applies fn to a clone of the state and persists it. Notifications
// returned by fn are prepended to the inbox and handed to the sink after the
// lock is released.
func (s *Store) mutate(ctx context.Context, fn func(st *models.State) ([]models.AppNotification, error)) error {
	s.mu.Lock()
	next := s.state.Clone()
	notes, err := fn(next)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}

	if len(notes) > 0 {
		inbox := make([]models.AppNotification, 0, len(notes)+len(next.Notifications))
		for i := len(notes) - 1; i >= 0; i-- {
			inbox = append(inbox, notes[i])
		}
		next.Notifications = append(inbox, next.Notifications...)
	}

	if err := s.repo.Save(ctx, SnapshotName, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.state = next
	s.mu.Unlock()

	if len(notes) > 0 && s.sink != nil {
		if err := s.sink.Deliver(ctx, notes); err != nil {
			log.Printf("Failed to deliver notifications: %v", err)
		}
	}
	return nil
}

func (s *Store) today() string {
	return models.FormatDate(s.now())
}
