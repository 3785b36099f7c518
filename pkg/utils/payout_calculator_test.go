package utils

import (
	"math"
	"testing"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func testDrivers() []models.Driver {
	return []models.Driver{
		{ID: "1", FullName: "João Silva", Status: models.DriverActive, CommissionType: models.CommissionVariable, CommissionValue: 25},
		{ID: "2", FullName: "Maria Santos", Status: models.DriverActive, CommissionType: models.CommissionFixed, CommissionValue: 100},
	}
}

func TestComputeNet(t *testing.T) {
	drivers := testDrivers()

	tests := []struct {
		name       string
		driverName string
		gross      float64
		expenses   []models.Expense
		want       float64
	}{
		{
			name:       "variable commission with fuel and toll",
			driverName: "João Silva",
			gross:      600,
			expenses: []models.Expense{
				{ID: "e1", DriverID: "1", Category: models.ExpenseFuel, Amount: 45.50, Status: models.ExpenseApproved},
				{ID: "e2", DriverID: "1", Category: models.ExpenseToll, Amount: 12.30, Status: models.ExpenseApproved},
			},
			want: 392.20,
		},
		{
			name:       "name match ignores case",
			driverName: "joão SILVA",
			gross:      100,
			want:       75,
		},
		{
			name:       "fixed commission",
			driverName: "Maria Santos",
			gross:      750,
			want:       650,
		},
		{
			name:       "fixed commission can go negative",
			driverName: "Maria Santos",
			gross:      40,
			expenses: []models.Expense{
				{ID: "e1", DriverID: "2", Category: models.ExpenseRental, Amount: 245, Status: models.ExpenseApproved},
			},
			want: -305,
		},
		{
			name:       "unknown driver uses default commission",
			driverName: "Carlos Nunes",
			gross:      500,
			want:       375,
		},
		{
			name:       "pending and rejected expenses are ignored",
			driverName: "João Silva",
			gross:      200,
			expenses: []models.Expense{
				{ID: "e1", DriverID: "1", Category: models.ExpenseFuel, Amount: 30, Status: models.ExpensePending},
				{ID: "e2", DriverID: "1", Category: models.ExpenseToll, Amount: 10, Status: models.ExpenseRejected},
			},
			want: 150,
		},
		{
			name:       "other drivers' expenses are ignored",
			driverName: "João Silva",
			gross:      200,
			expenses: []models.Expense{
				{ID: "e1", DriverID: "2", Category: models.ExpenseFuel, Amount: 30, Status: models.ExpenseApproved},
				{ID: "e2", Category: models.ExpenseFuel, Amount: 30, Status: models.ExpenseApproved},
			},
			want: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeNet(tt.driverName, tt.gross, drivers, tt.expenses)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeNet_UnknownDriverIsExactlyThreeQuarters(t *testing.T) {
	for _, gross := range []float64{0, 1, 99.99, 123.45, 1000.10, -50} {
		assert.Equal(t, gross*0.75, ComputeNet("Ninguém", gross, testDrivers(), nil))
	}
}

func TestComputeNet_IsPure(t *testing.T) {
	drivers := testDrivers()
	expenses := []models.Expense{
		{ID: "e1", DriverID: "1", Category: models.ExpenseFuel, Amount: 45.50, Status: models.ExpenseApproved},
	}
	first := ComputeNet("João Silva", 321.75, drivers, expenses)
	second := ComputeNet("João Silva", 321.75, drivers, expenses)
	assert.Equal(t, first, second)
	assert.Len(t, expenses, 1)
	assert.Equal(t, 25.0, drivers[0].CommissionValue)
}

func TestComputeNet_Slope(t *testing.T) {
	drivers := testDrivers()

	// fixed commission: slope 1
	a := ComputeNet("Maria Santos", 300, drivers, nil)
	b := ComputeNet("Maria Santos", 400, drivers, nil)
	assert.InDelta(t, 100, b-a, 1e-9)

	// variable 25%: slope 0.75
	a = ComputeNet("João Silva", 300, drivers, nil)
	b = ComputeNet("João Silva", 400, drivers, nil)
	assert.InDelta(t, 75, b-a, 1e-9)
}

func TestComputeNet_DeductionCategories(t *testing.T) {
	drivers := testDrivers()
	base := ComputeNet("João Silva", 500, drivers, nil)

	taxOnly := []models.Expense{
		{ID: "v", DriverID: "1", Category: models.ExpenseVAT, Amount: 150, Status: models.ExpenseApproved},
		{ID: "o", DriverID: "1", Category: models.ExpenseOther, Amount: 20, Status: models.ExpenseApproved},
	}
	assert.Equal(t, base, ComputeNet("João Silva", 500, drivers, taxOnly))

	deductible := append(taxOnly,
		models.Expense{ID: "t", DriverID: "1", Category: models.ExpenseToll, Amount: 12.30, Status: models.ExpenseApproved},
		models.Expense{ID: "f", DriverID: "1", Category: models.ExpenseFuel, Amount: 45.50, Status: models.ExpenseApproved},
		models.Expense{ID: "r", DriverID: "1", Category: models.ExpenseRental, Amount: 200, Status: models.ExpenseApproved},
	)
	assert.InDelta(t, base-257.80, ComputeNet("João Silva", 500, drivers, deductible), 1e-9)
}

func TestComputeNetBreakdown(t *testing.T) {
	drivers := append(testDrivers(), models.Driver{ID: "3", FullName: "JOÃO SILVA", CommissionType: models.CommissionFixed, CommissionValue: 10})
	expenses := []models.Expense{
		{ID: "e1", DriverID: "1", Category: models.ExpenseFuel, Amount: 45.50, Status: models.ExpenseApproved},
		{ID: "e2", DriverID: "1", Category: models.ExpenseToll, Amount: 12.30, Status: models.ExpenseApproved},
		{ID: "e3", DriverID: "1", Category: models.ExpenseRental, Amount: 200, Status: models.ExpenseApproved},
	}

	got := ComputeNetBreakdown("João Silva", 600, drivers, expenses)

	assert.True(t, got.DriverFound)
	assert.True(t, got.Ambiguous)
	assert.Equal(t, "1", got.DriverID)
	assert.Equal(t, 150.0, got.Commission)
	assert.Equal(t, 12.30, got.Tolls)
	assert.Equal(t, 45.50, got.Fuel)
	assert.Equal(t, 200.0, got.Rental)
	assert.Equal(t, 192.20, got.Net)

	unknown := ComputeNetBreakdown("Carlos Nunes", 100, drivers, expenses)
	assert.False(t, unknown.DriverFound)
	assert.Equal(t, 25.0, unknown.Commission)
	assert.Equal(t, 75.0, unknown.Net)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 10.13, RoundCents(10.125))
	assert.Equal(t, 392.2, RoundCents(392.19999999))
}

func TestComputeNet_NonFiniteGross(t *testing.T) {
	drivers := testDrivers()
	expenses := []models.Expense{
		{DriverID: "2", Category: models.ExpenseFuel, Amount: 20, Status: models.ExpenseApproved},
	}

	assert.NotPanics(t, func() {
		assert.True(t, math.IsNaN(ComputeNet("João Silva", math.NaN(), drivers, expenses)))
	})
	assert.NotPanics(t, func() {
		assert.True(t, math.IsInf(ComputeNet("Maria Santos", math.Inf(1), drivers, expenses), 1))
	})
	assert.NotPanics(t, func() {
		b := ComputeNetBreakdown("maria santos", math.Inf(-1), drivers, expenses)
		assert.True(t, b.DriverFound)
		assert.Equal(t, 100.0, b.Commission)
		assert.Equal(t, 20.0, b.Fuel)
		assert.True(t, math.IsInf(b.Net, -1))
	})
	assert.True(t, math.IsNaN(ComputeNet("Desconhecido", math.NaN(), drivers, nil)))
}

func TestRoundCents_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(RoundCents(math.NaN())))
	assert.Equal(t, 392.2, RoundCents(392.19999))
}
