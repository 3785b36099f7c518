package store

import (
	"context"
	"fmt"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/internal/services"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
)

func (s *Store) Payments() []models.Payment {
	return s.Snapshot().Payments
}

func (s *Store) Payment(id string) (models.Payment, error) {
	st := s.current()
	i := st.FindPayment(id)
	if i < 0 {
		return models.Payment{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	return st.Payments[i], nil
}

// ImportEarnings reconciles rows against the current drivers and approved
// expenses and prepends the resulting pending payments. A summary
// notification is written when anything was imported.
func (s *Store) ImportEarnings(ctx context.Context, rows []services.EarningRow, platform models.Platform, period string) (services.ImportResult, error) {
	var result services.ImportResult
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		now := s.now()
		result = services.ReconcileImport(rows, platform, st.Drivers, st.Expenses, period, now)
		if len(result.Payments) == 0 {
			return nil, errUnchanged
		}
		st.Payments = append(append([]models.Payment{}, result.Payments...), st.Payments...)
		return []models.AppNotification{services.ImportSummary(platform, result, period, now)}, nil
	})
	return result, err
}

// TransitionPayment sets any status on a payment, whatever its current one,
// and always writes a notification.
func (s *Store) TransitionPayment(ctx context.Context, id string, status models.PaymentStatus) (models.Payment, error) {
	var updated models.Payment
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindPayment(id)
		if i < 0 {
			return nil, fmt.Errorf("payment %s: %w", id, ErrNotFound)
		}
		st.Payments[i].Status = status
		updated = st.Payments[i]
		return []models.AppNotification{services.StatusChangeNotification(updated, status, s.now())}, nil
	})
	return updated, err
}

func markPaid(st *models.State, ids []string) []models.Payment {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var changed []models.Payment
	for i := range st.Payments {
		p := &st.Payments[i]
		if wanted[p.ID] && p.Status == models.PaymentPending {
			p.Status = models.PaymentPaid
			changed = append(changed, *p)
		}
	}
	return changed
}

// BulkMarkPaid marks the pending payments among ids as paid and returns the
// ones that changed. Unknown ids and payments in other states are skipped.
func (s *Store) BulkMarkPaid(ctx context.Context, ids []string) ([]models.Payment, error) {
	var changed []models.Payment
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		changed = markPaid(st, ids)
		if len(changed) == 0 {
			return nil, errUnchanged
		}
		return []models.AppNotification{services.BulkPaidNotification(len(changed), s.now())}, nil
	})
	return changed, err
}

// PayAllPending marks every pending payment as paid.
func (s *Store) PayAllPending(ctx context.Context) ([]models.Payment, error) {
	var ids []string
	for _, p := range s.current().Payments {
		if p.Status == models.PaymentPending {
			ids = append(ids, p.ID)
		}
	}
	return s.BulkMarkPaid(ctx, ids)
}

// PreviewNet runs the payout calculator against the current state without
// storing anything.
func (s *Store) PreviewNet(driverName string, gross float64) utils.PayoutBreakdown {
	st := s.current()
	return utils.ComputeNetBreakdown(driverName, gross, st.Drivers, st.Expenses)
}

// ApplyBoltSync merges a fetched Bolt payload into the fleet. The network call
// happens before, outside the lock.
func (s *Store) ApplyBoltSync(ctx context.Context, payload *services.BoltPayload) (services.BoltSyncResult, error) {
	var result services.BoltSyncResult
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		now := s.now()
		result = services.MergeBoltPayload(st, payload, utils.WeeklyPeriod(now, -1), now)
		return []models.AppNotification{services.BoltSyncNotification(payload, now)}, nil
	})
	return result, err
}

// ResetEarnings drops every rental expense.
func (s *Store) ResetEarnings(ctx context.Context) error {
	return s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		kept := st.Expenses[:0]
		for _, e := range st.Expenses {
			if e.Category != models.ExpenseRental {
				kept = append(kept, e)
			}
		}
		st.Expenses = kept
		return nil, nil
	})
}

// ClearAllData empties the fleet and leaves only a fresh admin account.
// Settings and notifications are kept.
func (s *Store) ClearAllData(ctx context.Context) error {
	admin, err := s.seedAdmin()
	if err != nil {
		return err
	}
	return s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		st.Drivers = []models.Driver{}
		st.Vehicles = []models.Vehicle{}
		st.Expenses = []models.Expense{}
		st.Rentals = []models.Rental{}
		st.Payments = []models.Payment{}
		st.Users = []models.User{admin}
		return nil, nil
	})
}
