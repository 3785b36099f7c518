package services

import (
	"strings"
	"testing"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"450.50", 450.50},
		{"450,50", 450.50},
		{" 12,3 ", 12.3},
		{"1,234,56", 1.234},
		{"100 €", 100},
		{"-20.5", -20.5},
		{"", 0},
		{"abc", 0},
		{"€100", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseAmount(tt.in), tt.in)
	}
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("UBER")
	require.NoError(t, err)
	assert.Equal(t, models.PlatformUber, p)

	p, err = ParsePlatform(" bolt ")
	require.NoError(t, err)
	assert.Equal(t, models.PlatformBolt, p)

	_, err = ParsePlatform("cabify")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestParseEarningsCSV_Bolt(t *testing.T) {
	input := "\ufeffMotorista,Ganhos brutos (total)|€,Ganhos líquidos|€\n" +
		"João Silva,\"600,00\",\"480,00\"\n" +
		",,\n" +
		"Carlos Nunes,400.5,300\n"

	rows, err := ParseEarningsCSV(strings.NewReader(input), models.PlatformBolt)
	require.NoError(t, err)

	assert.Equal(t, []EarningRow{
		{DriverName: "João Silva", Gross: 600, ReportedNet: 480},
		{DriverName: "Carlos Nunes", Gross: 400.5, ReportedNet: 300},
	}, rows)
}

func TestParseEarningsCSV_BoltEnglishHeaders(t *testing.T) {
	input := "Driver,Gross earnings|€,Net earnings|€\nMaria Santos,250,200\n"

	rows, err := ParseEarningsCSV(strings.NewReader(input), models.PlatformBolt)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Maria Santos", rows[0].DriverName)
	assert.Equal(t, 250.0, rows[0].Gross)
}

func TestParseEarningsCSV_Uber(t *testing.T) {
	input := "UUID do motorista,Nome próprio do motorista,Apelido do motorista,Pago a si,Pago a si : Os seus rendimentos : Tarifa\n" +
		"u-1,João,Silva,\"420,10\",\"550,25\"\n" +
		"u-2,Ana,,0,0\n"

	rows, err := ParseEarningsCSV(strings.NewReader(input), models.PlatformUber)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, EarningRow{DriverName: "João Silva", Gross: 550.25, ReportedNet: 420.10}, rows[0])
	assert.Equal(t, "Ana", rows[1].DriverName)
	assert.Zero(t, rows[1].Gross)
}

func TestParseEarningsCSV_UberEnglishHeadersFallback(t *testing.T) {
	input := "Nome próprio do motorista,Driver First Name,Driver Last Name,Your earnings : Fare,Net Payout\n" +
		",Rui,Costa,100,80\n"

	rows, err := ParseEarningsCSV(strings.NewReader(input), models.PlatformUber)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, EarningRow{DriverName: "Rui Costa", Gross: 100, ReportedNet: 80}, rows[0])
}

func TestParseEarningsCSV_EmptyInput(t *testing.T) {
	rows, err := ParseEarningsCSV(strings.NewReader(""), models.PlatformUber)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseEarningsCSV_UnsupportedPlatform(t *testing.T) {
	_, err := ParseEarningsCSV(strings.NewReader("a,b\n"), models.Platform("cabify"))
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestParseEarningsCSV_FeedsReconciler(t *testing.T) {
	input := "\ufeffMotorista,Ganhos brutos (total)|€,Ganhos líquidos|€\n" +
		"João Silva,600,480\n" +
		"Carlos Nunes,400,300\n"

	rows, err := ParseEarningsCSV(strings.NewReader(input), models.PlatformBolt)
	require.NoError(t, err)

	result := ReconcileImport(rows, models.PlatformBolt, fleetDrivers(), nil, "16/02 - 23/02", importNow)
	require.Len(t, result.Payments, 2)
	assert.Equal(t, []string{"Carlos Nunes"}, result.UnknownDrivers)
	assert.Equal(t, 450.0, result.Payments[0].Net)
	assert.Equal(t, 300.0, result.Payments[1].Net)
}
