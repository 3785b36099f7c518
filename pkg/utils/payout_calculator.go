package utils

import (
	"math"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultCommissionRate is applied when an earning row names a driver the
// fleet does not know.
const DefaultCommissionRate = 0.25

var hundred = decimal.NewFromInt(100)

// PayoutBreakdown contains the computed net payout and its components
type PayoutBreakdown struct {
	DriverFound bool    `json:"driverFound"`
	Ambiguous   bool    `json:"ambiguous"` // more than one driver shares the name
	DriverID    string  `json:"driverId,omitempty"`
	Gross       float64 `json:"gross"`
	Commission  float64 `json:"commission"`
	Tolls       float64 `json:"tolls"`
	Fuel        float64 `json:"fuel"`
	Rental      float64 `json:"rental"`
	Net         float64 `json:"net"`
}

// ComputeNet returns the amount payable to driverName for the given gross
// earnings. The result is not clamped and may be negative.
func ComputeNet(driverName string, gross float64, drivers []models.Driver, expenses []models.Expense) float64 {
	return ComputeNetBreakdown(driverName, gross, drivers, expenses).Net
}

// ComputeNetBreakdown resolves the driver by name (case-insensitive) and
// deducts the commission plus approved toll, fuel and rental expenses.
// VAT and other expenses never affect the payout.
func ComputeNetBreakdown(driverName string, gross float64, drivers []models.Driver, expenses []models.Expense) PayoutBreakdown {
	matches := models.FindDriversByName(drivers, driverName)
	if len(matches) == 0 {
		net := gross * (1 - DefaultCommissionRate)
		return PayoutBreakdown{
			Gross:      gross,
			Commission: gross * DefaultCommissionRate,
			Net:        net,
		}
	}

	driver := matches[0]
	if !finite(gross) || !finite(driver.CommissionValue) {
		return floatBreakdown(driver, len(matches) > 1, gross, expenses)
	}
	g := decimal.NewFromFloat(gross)

	var commission decimal.Decimal
	if driver.CommissionType == models.CommissionFixed {
		commission = decimal.NewFromFloat(driver.CommissionValue)
	} else {
		commission = g.Mul(decimal.NewFromFloat(driver.CommissionValue)).Div(hundred)
	}

	tolls, fuel, rental := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range expenses {
		e := &expenses[i]
		if e.DriverID != driver.ID || !e.Deductible() {
			continue
		}
		if !finite(e.Amount) {
			return floatBreakdown(driver, len(matches) > 1, gross, expenses)
		}
		amount := decimal.NewFromFloat(e.Amount)
		switch e.Category {
		case models.ExpenseToll:
			tolls = tolls.Add(amount)
		case models.ExpenseFuel:
			fuel = fuel.Add(amount)
		case models.ExpenseRental:
			rental = rental.Add(amount)
		}
	}

	net := g.Sub(commission).Sub(tolls).Sub(fuel).Sub(rental)

	return PayoutBreakdown{
		DriverFound: true,
		Ambiguous:   len(matches) > 1,
		DriverID:    driver.ID,
		Gross:       gross,
		Commission:  commission.InexactFloat64(),
		Tolls:       tolls.InexactFloat64(),
		Fuel:        fuel.InexactFloat64(),
		Rental:      rental.InexactFloat64(),
		Net:         net.InexactFloat64(),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// floatBreakdown is the plain float computation used when an input cannot be
// represented as a decimal (NaN or ±Inf).
func floatBreakdown(driver *models.Driver, ambiguous bool, gross float64, expenses []models.Expense) PayoutBreakdown {
	b := PayoutBreakdown{
		DriverFound: true,
		Ambiguous:   ambiguous,
		DriverID:    driver.ID,
		Gross:       gross,
	}
	if driver.CommissionType == models.CommissionFixed {
		b.Commission = driver.CommissionValue
	} else {
		b.Commission = gross * driver.CommissionValue / 100
	}
	for i := range expenses {
		e := &expenses[i]
		if e.DriverID != driver.ID || !e.Deductible() {
			continue
		}
		switch e.Category {
		case models.ExpenseToll:
			b.Tolls += e.Amount
		case models.ExpenseFuel:
			b.Fuel += e.Amount
		case models.ExpenseRental:
			b.Rental += e.Amount
		}
	}
	b.Net = gross - b.Commission - b.Tolls - b.Fuel - b.Rental
	return b
}

// RoundCents rounds an amount to 2 decimal places
func RoundCents(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
