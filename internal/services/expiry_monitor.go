package services

import (
	"fmt"
	"math"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
)

const (
	documentWarningDays = 30
	rentalWarningDays   = 7
	unknownPlaceholder  = "desconhecido"
)

// NotificationLookup answers whether a notification with the same title and
// message was already emitted.
type NotificationLookup interface {
	Contains(title, message string) bool
}

// DiffDays returns the whole days from now until expiry, rounded up.
// Zero or negative means the date has passed.
func DiffDays(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

type monitorRun struct {
	notify   func(models.AppNotification)
	existing NotificationLookup
	emitted  map[string]bool
	now      time.Time
}

func newMonitorRun(notify func(models.AppNotification), existing NotificationLookup, now time.Time) *monitorRun {
	return &monitorRun{notify: notify, existing: existing, emitted: make(map[string]bool), now: now}
}

func (m *monitorRun) emit(id, title, message string) {
	key := models.NotificationKey(title, message)
	if m.emitted[key] || (m.existing != nil && m.existing.Contains(title, message)) {
		return
	}
	m.emitted[key] = true
	m.notify(models.AppNotification{
		ID:      fmt.Sprintf("%s-%d", id, m.now.UnixMilli()),
		Title:   title,
		Message: message,
		Date:    models.FormatDate(m.now),
	})
}

// days parses an ISO date and returns DiffDays against the run time.
func (m *monitorRun) days(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	t, err := models.ParseDate(date)
	if err != nil {
		return 0, false
	}
	return DiffDays(t, m.now), true
}

// CheckDocumentExpirations warns about vehicle insurance/inspection dates and
// driver documents expiring within 30 days, and about those already expired.
func CheckDocumentExpirations(drivers []models.Driver, vehicles []models.Vehicle, notify func(models.AppNotification), existing NotificationLookup, now time.Time) {
	run := newMonitorRun(notify, existing, now)

	for _, v := range vehicles {
		docs := []struct{ name, date string }{
			{"Seguro", v.InsuranceExpiry},
			{"Inspeção", v.InspectionExpiry},
		}
		for _, doc := range docs {
			d, ok := run.days(doc.date)
			if !ok {
				continue
			}
			if d > 0 && d <= documentWarningDays {
				run.emit(fmt.Sprintf("expiry-v-%s-%s", v.ID, doc.name),
					fmt.Sprintf("Vencimento Próximo: %s", doc.name),
					fmt.Sprintf("O %s do veículo %s (%s %s) vence em %d dias (%s).", doc.name, v.Plate, v.Brand, v.Model, d, doc.date))
			} else if d <= 0 {
				run.emit(fmt.Sprintf("expired-v-%s-%s", v.ID, doc.name),
					fmt.Sprintf("Documento Expirado: %s", doc.name),
					fmt.Sprintf("O %s do veículo %s (%s %s) EXPIROU em %s.", doc.name, v.Plate, v.Brand, v.Model, doc.date))
			}
		}
	}

	for _, driver := range drivers {
		for _, doc := range driver.Documents {
			d, ok := run.days(doc.ExpiryDate)
			if !ok {
				continue
			}
			if d > 0 && d <= documentWarningDays {
				run.emit(fmt.Sprintf("expiry-d-%s-%s", driver.ID, doc.Type),
					fmt.Sprintf("Vencimento de Documento: %s", driver.FullName),
					fmt.Sprintf("O documento %s do motorista %s vence em %d dias (%s).", doc.Type, driver.FullName, d, doc.ExpiryDate))
			} else if d <= 0 {
				run.emit(fmt.Sprintf("expired-d-%s-%s", driver.ID, doc.Type),
					fmt.Sprintf("Documento Expirado: %s", driver.FullName),
					fmt.Sprintf("O documento %s do motorista %s EXPIROU em %s.", doc.Type, driver.FullName, doc.ExpiryDate))
			}
		}
	}
}

// CheckRentalExpirations warns about rented contracts ending within 7 days.
// Contracts that already ended are not reported.
func CheckRentalExpirations(rentals []models.Rental, vehicles []models.Vehicle, drivers []models.Driver, notify func(models.AppNotification), existing NotificationLookup, now time.Time) {
	run := newMonitorRun(notify, existing, now)

	for _, r := range rentals {
		if r.Status != models.RentalRented {
			continue
		}
		d, ok := run.days(r.EndDate)
		if !ok || d <= 0 || d > rentalWarningDays {
			continue
		}

		plate, found := models.VehiclePlate(vehicles, r.VehicleID)
		if !found {
			plate = unknownPlaceholder
		}
		driverName, found := models.DriverName(drivers, r.DriverID)
		if !found {
			driverName = unknownPlaceholder
		}

		run.emit(fmt.Sprintf("rental-end-%s", r.ID),
			fmt.Sprintf("Fim de Contrato Próximo: %s", plate),
			fmt.Sprintf("O contrato de aluguel do veículo %s com o motorista %s termina em %d dias (%s).", plate, driverName, d, r.EndDate))
	}
}
