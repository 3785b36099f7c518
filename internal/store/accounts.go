package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (s *Store) Notifications() []models.AppNotification {
	return s.Snapshot().Notifications
}

func (s *Store) AddNotification(ctx context.Context, n models.AppNotification) (models.AppNotification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Date == "" {
		n.Date = s.today()
	}
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		return []models.AppNotification{n}, nil
	})
	return n, err
}

// MarkNotificationsRead marks the whole inbox as read and returns how many
// were unread.
func (s *Store) MarkNotificationsRead(ctx context.Context) (int, error) {
	count := 0
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		for i := range st.Notifications {
			if !st.Notifications[i].Read {
				st.Notifications[i].Read = true
				count++
			}
		}
		if count == 0 {
			return nil, errUnchanged
		}
		return nil, nil
	})
	return count, err
}

// RunExpirationChecks scans documents and rentals and writes the alerts that
// are not already in the inbox.
func (s *Store) RunExpirationChecks(ctx context.Context, now time.Time) ([]models.AppNotification, error) {
	var found []models.AppNotification
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		notify := func(n models.AppNotification) { found = append(found, n) }
		index := services.NewNotificationIndex(st.Notifications)
		services.CheckDocumentExpirations(st.Drivers, st.Vehicles, notify, index, now)
		services.CheckRentalExpirations(st.Rentals, st.Vehicles, st.Drivers, notify, index, now)
		if len(found) == 0 {
			return nil, errUnchanged
		}
		return found, nil
	})
	return found, err
}

func (s *Store) Settings() models.CompanySettings {
	return s.current().Settings
}

func (s *Store) UpdateSettings(ctx context.Context, apply func(*models.CompanySettings) error) (models.CompanySettings, error) {
	var updated models.CompanySettings
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		settings := st.Settings
		if err := apply(&settings); err != nil {
			return nil, err
		}
		if strings.TrimSpace(settings.Name) == "" {
			return nil, fmt.Errorf("%w: company name is required", models.ErrValidation)
		}
		st.Settings = settings
		updated = settings
		return nil, nil
	})
	return updated, err
}

// Users lists back-office accounts without their password hashes.
func (s *Store) Users() []models.User {
	users := s.Snapshot().Users
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users
}

// AddUser creates a back-office account. The plain Password is hashed and
// never stored.
func (s *Store) AddUser(ctx context.Context, u models.User) (models.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return models.User{}, fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	if !u.Role.IsStaff() {
		return models.User{}, fmt.Errorf("%w: unknown user role %q", models.ErrValidation, u.Role)
	}
	if u.Password == "" {
		return models.User{}, fmt.Errorf("%w: password is required", models.ErrValidation)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := u.HashPassword(); err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		for _, existing := range st.Users {
			if strings.EqualFold(existing.Email, u.Email) {
				return nil, fmt.Errorf("%w: email %s is already registered", models.ErrValidation, u.Email)
			}
		}
		st.Users = append([]models.User{u}, st.Users...)
		return nil, nil
	})
	u.PasswordHash = ""
	return u, err
}

// Authenticate checks back-office users first, then drivers that have a
// password set. Drivers are returned as users with the driver role.
func (s *Store) Authenticate(email, password string) (models.User, error) {
	st := s.current()
	email = strings.TrimSpace(email)

	for _, u := range st.Users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if err := u.CheckPassword(password); err != nil {
			return models.User{}, ErrInvalidCredentials
		}
		u.PasswordHash = ""
		return u, nil
	}

	for _, d := range st.Drivers {
		if d.PasswordHash == "" || !strings.EqualFold(d.Email, email) {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{
			ID:       d.ID,
			Email:    d.Email,
			FullName: d.FullName,
			Role:     models.RoleDriver,
		}, nil
	}

	return models.User{}, ErrInvalidCredentials
}
