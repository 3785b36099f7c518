package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportDriversCSV(t *testing.T) {
	var buf bytes.Buffer
	drivers := []models.Driver{{
		FullName: "João Silva", NIF: "123456789", Email: "joao@example.pt", Phone: "912345678",
		Status: models.DriverActive, CommissionType: models.CommissionVariable, CommissionValue: 25,
	}}

	require.NoError(t, ExportDriversCSV(&buf, drivers))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, []string{"Nome", "NIF", "Email", "Telefone", "Status", "Comissão", "Tipo"}, records[0])
	assert.Equal(t, []string{"João Silva", "123456789", "joao@example.pt", "912345678", "active", "25", "variable"}, records[1])
}

func TestExportExpensesCSV(t *testing.T) {
	var buf bytes.Buffer
	drivers := []models.Driver{{ID: "d1", FullName: "João Silva"}}
	expenses := []models.Expense{
		{Date: "2026-02-20", Category: models.ExpenseFuel, DriverID: "d1", Description: "Galp", Amount: 45.5, Status: models.ExpenseApproved},
		{Date: "2026-02-21", Category: models.ExpenseOther, Description: "Lavagem", Amount: 10, Status: models.ExpensePending},
		{Date: "2026-02-22", Category: models.ExpenseToll, DriverID: "removed", Description: "A1", Amount: 3.2, Status: models.ExpenseApproved},
	}

	require.NoError(t, ExportExpensesCSV(&buf, expenses, drivers))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Data", "Categoria", "Motorista", "Descrição", "Valor", "Status"}, records[0])
	assert.Equal(t, []string{"2026-02-20", "combustivel", "João Silva", "Galp", "45.5", "approved"}, records[1])
	assert.Equal(t, "Geral", records[2][2])
	assert.Equal(t, "desconhecido", records[3][2])
}

func TestExportPaymentsCSV(t *testing.T) {
	var buf bytes.Buffer
	payments := []models.Payment{
		{Driver: "João Silva", Period: "16/02 - 23/02", Gross: 600, Net: 392.2, Status: models.PaymentPaid, Date: "2026-02-25"},
		{Driver: "Carlos Nunes", Period: "16/02 - 23/02", Gross: 400, Net: 300, Status: models.PaymentProcessing, Date: "2026-02-25"},
	}

	require.NoError(t, ExportPaymentsCSV(&buf, payments))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, []string{"Motorista", "Período", "Receita Bruta", "Taxas Plataforma", "Valor Líquido", "Status", "Data"}, records[0])
	assert.Equal(t, "Pago", records[1][5])
	assert.Equal(t, "100", records[2][3])
	assert.Equal(t, "Pendente", records[2][5])
}

func TestExportPaymentsXLSX(t *testing.T) {
	var buf bytes.Buffer
	payments := []models.Payment{
		{Driver: "João Silva", Period: "16/02 - 23/02", Gross: 600, Net: 450, Status: models.PaymentPending, Date: "2026-02-25"},
	}

	require.NoError(t, ExportPaymentsXLSX(&buf, payments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Financeiro"}, f.GetSheetList())

	header, err := f.GetCellValue("Financeiro", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Motorista", header)

	driver, err := f.GetCellValue("Financeiro", "A2")
	require.NoError(t, err)
	assert.Equal(t, "João Silva", driver)

	commission, err := f.GetCellValue("Financeiro", "D2")
	require.NoError(t, err)
	assert.Equal(t, "150", commission)
}
