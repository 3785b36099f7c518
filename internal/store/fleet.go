package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/google/uuid"
)

// Drivers lists drivers without their password hashes.
func (s *Store) Drivers() []models.Driver {
	drivers := s.Snapshot().Drivers
	for i := range drivers {
		drivers[i].PasswordHash = ""
	}
	return drivers
}

func (s *Store) Driver(id string) (models.Driver, error) {
	st := s.current()
	i := st.FindDriverByID(id)
	if i < 0 {
		return models.Driver{}, fmt.Errorf("driver %s: %w", id, ErrNotFound)
	}
	d := st.Drivers[i]
	d.Documents = append([]models.DriverDocument{}, d.Documents...)
	d.PasswordHash = ""
	return d, nil
}

// DriverByName returns the first driver whose name matches ignoring case.
func (s *Store) DriverByName(name string) (models.Driver, bool) {
	matches := models.FindDriversByName(s.current().Drivers, name)
	if len(matches) == 0 {
		return models.Driver{}, false
	}
	d := *matches[0]
	d.PasswordHash = ""
	return d, true
}

func (s *Store) AddDriver(ctx context.Context, d models.Driver) (models.Driver, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = models.DriverActive
	}
	if d.CommissionType == "" {
		d.CommissionType = models.CommissionVariable
	}
	if d.EntryDate == "" {
		d.EntryDate = s.today()
	}
	if d.Documents == nil {
		d.Documents = []models.DriverDocument{}
	}
	if err := d.Validate(); err != nil {
		return models.Driver{}, err
	}

	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		if st.FindDriverByID(d.ID) >= 0 {
			return nil, fmt.Errorf("%w: driver id %s already exists", models.ErrValidation, d.ID)
		}
		st.Drivers = append([]models.Driver{d}, st.Drivers...)
		return nil, nil
	})
	d.PasswordHash = ""
	return d, err
}

// UpdateDriver applies a partial update. The id cannot be changed.
func (s *Store) UpdateDriver(ctx context.Context, id string, apply func(*models.Driver) error) (models.Driver, error) {
	var updated models.Driver
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindDriverByID(id)
		if i < 0 {
			return nil, fmt.Errorf("driver %s: %w", id, ErrNotFound)
		}
		d := st.Drivers[i]
		if err := apply(&d); err != nil {
			return nil, err
		}
		d.ID = id
		if err := d.Validate(); err != nil {
			return nil, err
		}
		st.Drivers[i] = d
		updated = d
		return nil, nil
	})
	updated.PasswordHash = ""
	return updated, err
}

// ToggleDriverStatus flips a driver between active and suspended.
func (s *Store) ToggleDriverStatus(ctx context.Context, id string) (models.Driver, error) {
	return s.UpdateDriver(ctx, id, func(d *models.Driver) error {
		if d.Status == models.DriverActive {
			d.Status = models.DriverSuspended
		} else {
			d.Status = models.DriverActive
		}
		return nil
	})
}

func (s *Store) Vehicles() []models.Vehicle {
	return s.Snapshot().Vehicles
}

func (s *Store) Vehicle(id string) (models.Vehicle, error) {
	st := s.current()
	i := st.FindVehicleByID(id)
	if i < 0 {
		return models.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	v := st.Vehicles[i]
	v.Documents = append([]models.VehicleDocument{}, v.Documents...)
	v.History = append([]models.MaintenanceEntry(nil), v.History...)
	return v, nil
}

func (s *Store) AddVehicle(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.Plate = strings.TrimSpace(v.Plate)
	if v.Status == "" {
		v.Status = models.VehicleActive
	}
	if v.EntryDate == "" {
		v.EntryDate = s.today()
	}
	if v.Documents == nil {
		v.Documents = []models.VehicleDocument{}
	}
	if err := v.Validate(); err != nil {
		return models.Vehicle{}, err
	}

	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		if st.FindVehicleByPlate(v.Plate) >= 0 {
			return nil, fmt.Errorf("plate %s: %w", v.Plate, ErrDuplicatePlate)
		}
		st.Vehicles = append([]models.Vehicle{v}, st.Vehicles...)
		return nil, nil
	})
	return v, err
}

func (s *Store) UpdateVehicle(ctx context.Context, id string, apply func(*models.Vehicle) error) (models.Vehicle, error) {
	var updated models.Vehicle
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindVehicleByID(id)
		if i < 0 {
			return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
		}
		v := st.Vehicles[i]
		if err := apply(&v); err != nil {
			return nil, err
		}
		v.ID = id
		v.Plate = strings.TrimSpace(v.Plate)
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if j := st.FindVehicleByPlate(v.Plate); j >= 0 && j != i {
			return nil, fmt.Errorf("plate %s: %w", v.Plate, ErrDuplicatePlate)
		}
		st.Vehicles[i] = v
		updated = v
		return nil, nil
	})
	return updated, err
}

// ToggleVehicleStatus flips a vehicle between active and maintenance.
func (s *Store) ToggleVehicleStatus(ctx context.Context, id string) (models.Vehicle, error) {
	return s.UpdateVehicle(ctx, id, func(v *models.Vehicle) error {
		if v.Status == models.VehicleActive {
			v.Status = models.VehicleMaintenance
		} else {
			v.Status = models.VehicleActive
		}
		return nil
	})
}

// AddMaintenanceEntry records a service in the vehicle history, newest first.
func (s *Store) AddMaintenanceEntry(ctx context.Context, id string, entry models.MaintenanceEntry) (models.Vehicle, error) {
	if entry.Date == "" {
		entry.Date = s.today()
	}
	if _, err := models.ParseDate(entry.Date); err != nil {
		return models.Vehicle{}, fmt.Errorf("%w: invalid date %q", models.ErrValidation, entry.Date)
	}
	if entry.Cost < 0 {
		return models.Vehicle{}, fmt.Errorf("%w: cost must be non-negative", models.ErrValidation)
	}
	return s.UpdateVehicle(ctx, id, func(v *models.Vehicle) error {
		v.History = append([]models.MaintenanceEntry{entry}, v.History...)
		return nil
	})
}

func (s *Store) Expenses() []models.Expense {
	return s.Snapshot().Expenses
}

func (s *Store) AddExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = models.ExpensePending
	}
	if e.Date == "" {
		e.Date = s.today()
	}
	if err := e.Validate(); err != nil {
		return models.Expense{}, err
	}

	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		st.Expenses = append([]models.Expense{e}, st.Expenses...)
		return nil, nil
	})
	return e, err
}

func (s *Store) UpdateExpense(ctx context.Context, id string, apply func(*models.Expense) error) (models.Expense, error) {
	var updated models.Expense
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindExpense(id)
		if i < 0 {
			return nil, fmt.Errorf("expense %s: %w", id, ErrNotFound)
		}
		e := st.Expenses[i]
		if err := apply(&e); err != nil {
			return nil, err
		}
		e.ID = id
		if err := e.Validate(); err != nil {
			return nil, err
		}
		st.Expenses[i] = e
		updated = e
		return nil, nil
	})
	return updated, err
}

// SetExpenseStatus approves or rejects an expense. Only approved expenses are
// deducted from later payouts.
func (s *Store) SetExpenseStatus(ctx context.Context, id string, status models.ExpenseStatus) (models.Expense, error) {
	return s.UpdateExpense(ctx, id, func(e *models.Expense) error {
		e.Status = status
		return nil
	})
}

func (s *Store) Rentals() []models.Rental {
	return s.Snapshot().Rentals
}

func validateRental(r *models.Rental) error {
	switch r.Status {
	case models.RentalAvailable, models.RentalRented, models.RentalMaintenance:
	default:
		return fmt.Errorf("%w: unknown rental status %q", models.ErrValidation, r.Status)
	}
	if r.DailyRate < 0 || r.SecurityDeposit < 0 {
		return fmt.Errorf("%w: rates must be non-negative", models.ErrValidation)
	}
	if r.EndDate != "" {
		if _, err := models.ParseDate(r.EndDate); err != nil {
			return fmt.Errorf("%w: invalid end_date %q", models.ErrValidation, r.EndDate)
		}
	}
	return nil
}

func (s *Store) AddRental(ctx context.Context, r models.Rental) (models.Rental, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = models.RentalAvailable
	}
	if r.InterestedDrivers == nil {
		r.InterestedDrivers = []string{}
	}
	if err := validateRental(&r); err != nil {
		return models.Rental{}, err
	}

	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		if st.FindVehicleByID(r.VehicleID) < 0 {
			return nil, fmt.Errorf("vehicle %s: %w", r.VehicleID, ErrNotFound)
		}
		st.Rentals = append([]models.Rental{r}, st.Rentals...)
		return nil, nil
	})
	return r, err
}

func (s *Store) UpdateRental(ctx context.Context, id string, apply func(*models.Rental) error) (models.Rental, error) {
	var updated models.Rental
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindRental(id)
		if i < 0 {
			return nil, fmt.Errorf("rental %s: %w", id, ErrNotFound)
		}
		r := st.Rentals[i]
		if err := apply(&r); err != nil {
			return nil, err
		}
		r.ID = id
		if r.InterestedDrivers == nil {
			r.InterestedDrivers = []string{}
		}
		if err := validateRental(&r); err != nil {
			return nil, err
		}
		st.Rentals[i] = r
		updated = r
		return nil, nil
	})
	return updated, err
}

// RequestRental adds driverName to the interested list of an available rental.
// Asking twice is a no-op.
func (s *Store) RequestRental(ctx context.Context, id, driverName string) (models.Rental, error) {
	driverName = strings.TrimSpace(driverName)
	if driverName == "" {
		return models.Rental{}, fmt.Errorf("%w: driver name is required", models.ErrValidation)
	}

	var updated models.Rental
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindRental(id)
		if i < 0 {
			return nil, fmt.Errorf("rental %s: %w", id, ErrNotFound)
		}
		r := &st.Rentals[i]
		if r.Status != models.RentalAvailable {
			return nil, fmt.Errorf("rental %s is %s: %w", id, r.Status, ErrRentalUnavailable)
		}
		updated = *r
		if r.HasInterest(driverName) {
			return nil, errUnchanged
		}
		r.InterestedDrivers = append(r.InterestedDrivers, driverName)
		updated = *r
		return nil, nil
	})
	return updated, err
}

// ApproveRental hands the rental's vehicle to a driver and books the first
// weekly rent as an approved expense.
func (s *Store) ApproveRental(ctx context.Context, rentalID, driverID, endDate string) (models.Rental, models.Expense, error) {
	if endDate != "" {
		if _, err := models.ParseDate(endDate); err != nil {
			return models.Rental{}, models.Expense{}, fmt.Errorf("%w: invalid end_date %q", models.ErrValidation, endDate)
		}
	}

	var (
		approved models.Rental
		expense  models.Expense
	)
	err := s.mutate(ctx, func(st *models.State) ([]models.AppNotification, error) {
		i := st.FindRental(rentalID)
		if i < 0 {
			return nil, fmt.Errorf("rental %s: %w", rentalID, ErrNotFound)
		}
		d := st.FindDriverByID(driverID)
		if d < 0 {
			return nil, fmt.Errorf("driver %s: %w", driverID, ErrNotFound)
		}
		r := &st.Rentals[i]

		plate, ok := models.VehiclePlate(st.Vehicles, r.VehicleID)
		if !ok {
			plate = "desconhecido"
		}
		expense = models.Expense{
			ID:          uuid.NewString(),
			DriverID:    driverID,
			Category:    models.ExpenseRental,
			Amount:      r.WeeklyCost(),
			Date:        s.today(),
			Description: "Aluguel Semanal - Viatura " + plate,
			Status:      models.ExpenseApproved,
		}
		st.Expenses = append([]models.Expense{expense}, st.Expenses...)

		r.Status = models.RentalRented
		r.DriverID = driverID
		r.StartDate = s.today()
		if endDate != "" {
			r.EndDate = endDate
		}
		r.RemoveInterest(st.Drivers[d].FullName)
		approved = *r

		if v := st.FindVehicleByID(r.VehicleID); v >= 0 {
			st.Vehicles[v].CurrentDriverID = driverID
			st.Vehicles[v].Status = models.VehicleActive
		}
		return nil, nil
	})
	return approved, expense, err
}

// RejectRental removes driverName from the interested list and nothing else.
func (s *Store) RejectRental(ctx context.Context, rentalID, driverName string) (models.Rental, error) {
	return s.UpdateRental(ctx, rentalID, func(r *models.Rental) error {
		r.RemoveInterest(driverName)
		return nil
	})
}
