package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
	"github.com/google/uuid"
)

const (
	boltDefaultCategory = "Economy"
	boltUnknownMake     = "Desconhecido"
	boltFallbackDriver  = "Motorista Bolt"
)

// BoltSyncResult reports what a sync changed
type BoltSyncResult struct {
	DriversAdded   int              `json:"driversAdded"`
	VehiclesAdded  int              `json:"vehiclesAdded"`
	Payments       []models.Payment `json:"payments"`
	UnknownDrivers []string         `json:"unknownDrivers"`
	IsMock         bool             `json:"isMock"`
}

func boltID(id FlexString) string {
	if id == "" {
		return "bolt-" + uuid.NewString()
	}
	return "bolt-" + string(id)
}

func newBoltDriver(bd BoltDriver, name string, now time.Time) models.Driver {
	nif := bd.TaxID
	if nif == "" {
		nif = bd.NIF
	}
	return models.Driver{
		ID:               boltID(bd.ID),
		FullName:         name,
		Email:            bd.Email,
		Phone:            bd.Phone,
		NIF:              nif,
		EntryDate:        models.FormatDate(now),
		Status:           models.DriverActive,
		AcceptanceRate:   100,
		CancellationRate: 0,
		RatingUber:       5.0,
		RatingBolt:       5.0,
		Category:         boltDefaultCategory,
		Documents:        []models.DriverDocument{},
		CommissionType:   models.CommissionVariable,
		CommissionValue:  utils.DefaultCommissionRate * 100,
		BoltID:           string(bd.ID),
	}
}

func newBoltVehicle(bv BoltVehicle, plate string, now time.Time) models.Vehicle {
	brand := bv.Make
	if brand == "" {
		brand = bv.Brand
	}
	if brand == "" {
		brand = boltUnknownMake
	}
	model := bv.Model
	if model == "" {
		model = boltUnknownMake
	}
	year := int(bv.Year)
	if year == 0 {
		year = now.Year()
	}
	return models.Vehicle{
		ID:        boltID(bv.ID),
		Brand:     brand,
		Model:     model,
		Year:      year,
		Plate:     plate,
		Category:  boltDefaultCategory,
		Status:    models.VehicleActive,
		EntryDate: models.FormatDate(now),
		Documents: []models.VehicleDocument{},
	}
}

// BoltEarningRows converts Bolt earnings into import rows. Each earning keeps
// its own period and date when Bolt provides them.
func BoltEarningRows(earnings []BoltEarning) []EarningRow {
	rows := make([]EarningRow, 0, len(earnings))
	for _, e := range earnings {
		name := strings.TrimSpace(e.DriverName)
		if name == "" {
			name = strings.TrimSpace(e.Name)
		}
		if name == "" {
			name = boltFallbackDriver
		}
		gross := float64(e.Amount)
		if gross == 0 {
			gross = float64(e.TotalAmount)
		}
		rows = append(rows, EarningRow{
			DriverName: name,
			Gross:      gross,
			Period:     e.Period,
			Date:       e.Date,
		})
	}
	return rows
}

// MergeBoltPayload applies a sync to state: unknown drivers and vehicles are
// added first so that earnings can be matched against them, then earnings go
// through ReconcileImport and the payments are prepended.
func MergeBoltPayload(state *models.State, payload *BoltPayload, period string, now time.Time) BoltSyncResult {
	result := BoltSyncResult{IsMock: payload.IsMock}

	for _, bd := range payload.Drivers {
		name := bd.DisplayName()
		if name == "" {
			continue
		}
		if len(models.FindDriversByName(state.Drivers, name)) > 0 {
			continue
		}
		state.Drivers = append(state.Drivers, newBoltDriver(bd, name, now))
		result.DriversAdded++
	}

	for _, bv := range payload.Vehicles {
		plate := bv.PlateValue()
		if plate == "" || state.FindVehicleByPlate(plate) >= 0 {
			continue
		}
		state.Vehicles = append(state.Vehicles, newBoltVehicle(bv, plate, now))
		result.VehiclesAdded++
	}

	imported := ReconcileImport(BoltEarningRows(payload.Earnings), models.PlatformBolt, state.Drivers, state.Expenses, period, now)
	result.Payments = imported.Payments
	result.UnknownDrivers = imported.UnknownDrivers
	if len(imported.Payments) > 0 {
		state.Payments = append(append([]models.Payment{}, imported.Payments...), state.Payments...)
	}

	return result
}

// BoltSyncNotification is the inbox entry written after a sync
func BoltSyncNotification(payload *BoltPayload, now time.Time) models.AppNotification {
	if payload.IsMock {
		return newNotification(
			"Sincronização (Modo Demo)",
			"As credenciais da Bolt não foram configuradas. Foram carregados dados de demonstração.",
			now,
		)
	}
	return newNotification(
		"Sincronização Bolt Concluída",
		fmt.Sprintf("Sincronizados %d motoristas e %d registros de ganhos.", len(payload.Drivers), len(payload.Earnings)),
		now,
	)
}
