package services

import (
	"fmt"
	"time"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/chachabrian/tvdefleet-backend/pkg/utils"
)

const (
	ivaRate            = 0.06
	criticalAlertDays  = 7
	driverDocAlertDays = 30
)

type FinanceStatsResult struct {
	TotalGross      float64 `json:"totalGross"`
	TotalNet        float64 `json:"totalNet"`
	TotalCommission float64 `json:"totalCommission"`
	PendingCount    int     `json:"pendingCount"`
}

// FinanceStats totals the payments list shown on the finance page
func FinanceStats(payments []models.Payment) FinanceStatsResult {
	var s FinanceStatsResult
	for i := range payments {
		p := &payments[i]
		s.TotalGross += p.Gross
		s.TotalNet += p.Net
		s.TotalCommission += p.Commission()
		if p.Status == models.PaymentPending {
			s.PendingCount++
		}
	}
	s.TotalGross = utils.RoundCents(s.TotalGross)
	s.TotalNet = utils.RoundCents(s.TotalNet)
	s.TotalCommission = utils.RoundCents(s.TotalCommission)
	return s
}

type IVAProjection struct {
	Monthly    float64 `json:"monthly"`
	Quarterly  float64 `json:"quarterly"`
	SemiAnnual float64 `json:"semiAnnual"`
	Annual     float64 `json:"annual"`
}

type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // red, amber
}

type DashboardSummaryResult struct {
	ActiveDrivers        int           `json:"activeDrivers"`
	ActiveVehicles       int           `json:"activeVehicles"`
	TotalGross           float64       `json:"totalGross"`
	CompanyCommission    float64       `json:"companyCommission"`
	IVA                  IVAProjection `json:"iva"`
	PendingPaymentsTotal float64       `json:"pendingPaymentsTotal"`
	CurrentPeriod        string        `json:"currentPeriod"`
	CriticalAlerts       []Alert       `json:"criticalAlerts"`
}

// DashboardSummary computes the headline figures. The IVA amounts are a 6%
// estimate of gross revenue, not a tax computation.
func DashboardSummary(state *models.State, now time.Time) DashboardSummaryResult {
	out := DashboardSummaryResult{
		CurrentPeriod:  utils.WeeklyPeriod(now, -1),
		CriticalAlerts: []Alert{},
	}

	for _, d := range state.Drivers {
		if d.Status == models.DriverActive {
			out.ActiveDrivers++
		}
	}
	for _, v := range state.Vehicles {
		if v.Status == models.VehicleActive {
			out.ActiveVehicles++
		}
	}

	var gross, pending float64
	for _, p := range state.Payments {
		gross += p.Gross
		if p.Status == models.PaymentPending {
			pending += p.Net
		}
	}
	monthly := gross * ivaRate
	out.TotalGross = utils.RoundCents(gross)
	out.CompanyCommission = utils.RoundCents(gross * utils.DefaultCommissionRate)
	out.PendingPaymentsTotal = utils.RoundCents(pending)
	out.IVA = IVAProjection{
		Monthly:    utils.RoundCents(monthly),
		Quarterly:  utils.RoundCents(monthly * 3),
		SemiAnnual: utils.RoundCents(monthly * 6),
		Annual:     utils.RoundCents(monthly * 12),
	}

	for _, v := range state.Vehicles {
		if d, ok := daysUntil(v.InsuranceExpiry, now); ok && d <= criticalAlertDays {
			out.CriticalAlerts = append(out.CriticalAlerts, Alert{
				Title:   "Seguro a Vencer",
				Message: fmt.Sprintf("O seguro da viatura %s vence em %d dias.", v.Plate, d),
				Type:    "red",
			})
			continue
		}
		if d, ok := daysUntil(v.InspectionExpiry, now); ok && d <= criticalAlertDays {
			out.CriticalAlerts = append(out.CriticalAlerts, Alert{
				Title:   "Inspeção a Vencer",
				Message: fmt.Sprintf("A inspeção da viatura %s vence em %d dias.", v.Plate, d),
				Type:    "amber",
			})
		}
	}

	return out
}

func daysUntil(date string, now time.Time) (int, bool) {
	if date == "" {
		return 0, false
	}
	t, err := models.ParseDate(date)
	if err != nil {
		return 0, false
	}
	return DiffDays(t, now), true
}

type ExpiringDocument struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	DaysLeft int    `json:"daysLeft"`
}

type Deductions struct {
	Tolls  float64 `json:"tolls"`
	Fuel   float64 `json:"fuel"`
	Rental float64 `json:"rental"`
	Other  float64 `json:"other"`
	Total  float64 `json:"total"`
}

// InvoiceDetails is what a driver needs to bill the fleet operator
type InvoiceDetails struct {
	Name    string `json:"name"`
	NIF     string `json:"nif"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type DriverSummaryResult struct {
	Driver            models.Driver      `json:"driver"`
	Payments          []models.Payment   `json:"payments"`
	TotalBalance      float64            `json:"totalBalance"`
	PendingBalance    float64            `json:"pendingBalance"`
	PaidBalance       float64            `json:"paidBalance"`
	Expenses          []models.Expense   `json:"expenses"`
	Deductions        Deductions         `json:"deductions"`
	Vehicle           *models.Vehicle    `json:"vehicle,omitempty"`
	ExpiringDocuments []ExpiringDocument `json:"expiringDocuments"`
	Invoice           InvoiceDetails     `json:"invoice"`
}

// DriverSummary builds a driver's own view. Payments are matched by driver id,
// or by name for payments imported before the driver existed. since filters
// payments by date when non-zero.
func DriverSummary(state *models.State, driverID string, since time.Time, now time.Time) (DriverSummaryResult, bool) {
	idx := state.FindDriverByID(driverID)
	if idx < 0 {
		return DriverSummaryResult{}, false
	}
	driver := state.Drivers[idx]
	driver.PasswordHash = ""

	out := DriverSummaryResult{
		Driver:            driver,
		Payments:          []models.Payment{},
		Expenses:          []models.Expense{},
		ExpiringDocuments: []ExpiringDocument{},
		Invoice: InvoiceDetails{
			Name:    state.Settings.Name,
			NIF:     state.Settings.NIF,
			Address: state.Settings.Address,
			Email:   state.Settings.Email,
		},
	}

	for _, p := range state.Payments {
		if p.DriverID != driver.ID && !(p.DriverID == "" && driver.SameName(p.Driver)) {
			continue
		}
		if !since.IsZero() {
			if t, err := models.ParseDate(p.Date); err != nil || t.Before(since) {
				continue
			}
		}
		out.Payments = append(out.Payments, p)
		out.TotalBalance += p.Net
		switch p.Status {
		case models.PaymentPaid:
			out.PaidBalance += p.Net
		case models.PaymentProcessing:
			out.PendingBalance += p.Net
		}
	}
	out.TotalBalance = utils.RoundCents(out.TotalBalance)
	out.PaidBalance = utils.RoundCents(out.PaidBalance)
	out.PendingBalance = utils.RoundCents(out.PendingBalance)

	for _, e := range state.Expenses {
		if e.DriverID != driver.ID || e.Status != models.ExpenseApproved {
			continue
		}
		out.Expenses = append(out.Expenses, e)
		switch e.Category {
		case models.ExpenseToll:
			out.Deductions.Tolls += e.Amount
		case models.ExpenseFuel:
			out.Deductions.Fuel += e.Amount
		case models.ExpenseRental:
			out.Deductions.Rental += e.Amount
		default:
			out.Deductions.Other += e.Amount
		}
	}
	out.Deductions.Total = utils.RoundCents(out.Deductions.Tolls + out.Deductions.Fuel + out.Deductions.Rental)

	for i := range state.Vehicles {
		if state.Vehicles[i].CurrentDriverID == driver.ID {
			v := state.Vehicles[i]
			out.Vehicle = &v
			break
		}
	}

	var docs []ExpiringDocument
	if out.Vehicle != nil {
		docs = append(docs,
			ExpiringDocument{Name: "Seguro (Viatura)", Date: out.Vehicle.InsuranceExpiry},
			ExpiringDocument{Name: "Inspeção (Viatura)", Date: out.Vehicle.InspectionExpiry},
		)
	}
	for _, doc := range driver.Documents {
		docs = append(docs, ExpiringDocument{Name: string(doc.Type), Date: doc.ExpiryDate})
	}
	for _, doc := range docs {
		if d, ok := daysUntil(doc.Date, now); ok && d <= driverDocAlertDays {
			doc.DaysLeft = d
			out.ExpiringDocuments = append(out.ExpiringDocuments, doc)
		}
	}

	return out, true
}
